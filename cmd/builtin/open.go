package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/backup-explorer/cmd"
)

type OpenCommand struct{}

func (*OpenCommand) Name() string {
	return "open"
}

func (*OpenCommand) Description() string {
	return "Load the backups of a local database"
}

func (*OpenCommand) Usage() string {
	return "open <database.sqlite>"
}

func (*OpenCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 1 {
		return 1, fmt.Errorf("expected exactly one database path")
	}

	if err := api.LoadAll(ctx, args.Args[0]); err != nil {
		return 1, err
	}

	fmt.Fprintf(writer, "Loaded %d backups from %s\n", len(api.Backups()), api.Path())
	return 0, nil
}

func (*OpenCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
