package builtin

import (
	"context"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/backup-explorer/cmd"
)

type ListCommand struct{}

func (*ListCommand) Name() string {
	return "list"
}

func (*ListCommand) Description() string {
	return "List the backups of the loaded database"
}

func (*ListCommand) Usage() string {
	return "list"
}

func (*ListCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	backups := api.Backups()
	if len(backups) == 0 {
		fmt.Fprintln(writer, "No backups loaded")
		return 0, nil
	}

	loaded := api.Loaded()
	selected := api.Selected()

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tTIMESTAMP\tSIZE\tLOADED")
	for _, backup := range backups {
		marker := ""
		if backup == selected {
			marker = ">"
		}

		size := "unknown"
		if s, err := backup.Size(); err == nil {
			size = humanize.Bytes(uint64(max(s, 0)))
		}

		state := ""
		if slices.Contains(loaded, backup.Fileset.ID) {
			state = "yes"
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", marker, backup.Fileset.ID,
			backup.Fileset.Timestamp.Local().Format("2006-01-02 15:04:05"), size, state)
	}
	if err := tw.Flush(); err != nil {
		return 1, err
	}

	total, wasted := api.Totals()
	fmt.Fprintf(writer, "\nAll backups: %s, wasted: %s\n",
		humanize.Bytes(uint64(max(total, 0))), humanize.Bytes(uint64(max(wasted, 0))))
	return 0, nil
}

func (*ListCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
