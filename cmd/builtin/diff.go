package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/backup-explorer/cmd"
	"github.com/mwantia/backup-explorer/report"
)

type DiffCommand struct{}

func (*DiffCommand) Name() string {
	return "diff"
}

func (*DiffCommand) Description() string {
	return "Show paths added or removed between two backups"
}

func (*DiffCommand) Usage() string {
	return "diff [-c lines] <left> <right>"
}

func (*DiffCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
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

	left, err := api.FileTree(ctx, leftBackup)
	if err != nil {
		return 1, err
	}
	right, err := api.FileTree(ctx, rightBackup)
	if err != nil {
		return 1, err
	}

	diff, err := report.ListingDiff(left, right, int(args.Int("context")))
	if err != nil {
		return 1, err
	}
	if diff == "" {
		fmt.Fprintln(writer, "No paths differ")
		return 0, nil
	}

	_, err = io.WriteString(writer, diff)
	return 0, err
}

func (*DiffCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"context": {
				Name:        "context",
				Short:       "c",
				Type:        cmd.FlagInt,
				Default:     int64(1),
				Description: "Number of unchanged paths around each change",
			},
		},
	}
}
