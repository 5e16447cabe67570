package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/backup-explorer/cmd"
	"github.com/mwantia/backup-explorer/report"
)

type CompareCommand struct {
	session *Session
}

func (*CompareCommand) Name() string {
	return "compare"
}

func (*CompareCommand) Description() string {
	return "Compare the files of one backup with another backup"
}

func (*CompareCommand) Usage() string {
	return "compare [-p path] [-d depth] <left> <right>"
}

func (c *CompareCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 2 {
		return 1, fmt.Errorf("expected a left and a right fileset id")
	}

	leftBackup, err := resolveBackup(api, args.Args[0])
	if err != nil {
		return 1, err
	}
	rightBackup, err := resolveBackup(api, args.Args[1])
	if err != nil {
		return 1, err
	}

	leftFull, err := api.FileTree(ctx, leftBackup)
	if err != nil {
		return 1, err
	}
	left, err := leftTree(leftFull, args.String("path"))
	if err != nil {
		return 1, err
	}
	right, err := api.FileTree(ctx, rightBackup)
	if err != nil {
		return 1, err
	}

	if err := api.Compare(ctx, left, right); err != nil {
		return 1, err
	}

	r := report.New(left, right.Name)
	c.session.SetReport(r)
	return 0, r.WriteText(writer, int(args.Int("depth")))
}

func (*CompareCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"depth": depthFlag,
			"path":  pathFlag,
		},
	}
}

type CompareAllCommand struct {
	session *Session
}

func (*CompareAllCommand) Name() string {
	return "compare-all"
}

func (*CompareAllCommand) Description() string {
	return "Find the files of a backup whose content is stored by any other backup"
}

func (*CompareAllCommand) Usage() string {
	return "compare-all [-p path] [-d depth] [id]"
}

func (c *CompareAllCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	backup, err := resolveBackup(api, args.Arg(0, ""))
	if err != nil {
		return 1, err
	}

	full, err := api.FileTree(ctx, backup)
	if err != nil {
		return 1, err
	}
	left, err := leftTree(full, args.String("path"))
	if err != nil {
		return 1, err
	}

	if err := api.CompareToAll(ctx, left); err != nil {
		return 1, err
	}

	r := report.New(left, "All Backups")
	c.session.SetReport(r)
	return 0, r.WriteText(writer, int(args.Int("depth")))
}

func (*CompareAllCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"depth": depthFlag,
			"path":  pathFlag,
		},
	}
}
