package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/backup-explorer/cmd"
)

type SelectCommand struct{}

func (*SelectCommand) Name() string {
	return "select"
}

func (*SelectCommand) Description() string {
	return "Select a backup, loading its files in the background"
}

func (*SelectCommand) Usage() string {
	return "select <id>"
}

func (*SelectCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 1 {
		return 1, fmt.Errorf("expected exactly one fileset id")
	}

	backup, err := resolveBackup(api, args.Args[0])
	if err != nil {
		return 1, err
	}

	api.Select(backup)
	if !backup.Materialized() {
		fmt.Fprintf(writer, "Loading %s...\n", backup)
		return 0, nil
	}

	fmt.Fprintf(writer, "Selected %s\n", backup)
	return 0, nil
}

func (*SelectCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
