package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/backup-explorer/cmd"
	"github.com/mwantia/backup-explorer/report"
)

type ExportCommand struct {
	session *Session
}

func (*ExportCommand) Name() string {
	return "export"
}

func (*ExportCommand) Description() string {
	return "Export the last comparison to every configured target"
}

func (*ExportCommand) Usage() string {
	return "export"
}

func (e *ExportCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	r, err := e.session.Report()
	if err != nil {
		return 1, err
	}
	if len(e.session.Exporters) == 0 {
		return 1, fmt.Errorf("no export targets configured")
	}

	if err := report.ExportAll(ctx, e.session.Log, r, e.session.Exporters...); err != nil {
		return 1, err
	}

	fmt.Fprintf(writer, "Exported report %s to %d targets\n", r.Key(), len(e.session.Exporters))
	return 0, nil
}

func (*ExportCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
