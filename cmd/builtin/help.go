package builtin

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/mwantia/backup-explorer/cmd"
)

type HelpCommand struct {
	manager *cmd.Manager
}

func (*HelpCommand) Name() string {
	return "help"
}

func (*HelpCommand) Description() string {
	return "List commands or describe one command"
}

func (*HelpCommand) Usage() string {
	return "help [command]"
}

func (h *HelpCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) > 0 {
		command, err := h.manager.Get(args.Args[0])
		if err != nil {
			return 1, err
		}
		return 0, describe(writer, command)
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	for _, command := range h.manager.List() {
		fmt.Fprintf(tw, "%s\t%s\n", command.Usage(), command.Description())
	}
	return 0, tw.Flush()
}

func (*HelpCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

func describe(w io.Writer, command cmd.Command) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s\n%s\n", command.Usage(), command.Description())

	if flags := command.GetFlags(); flags != nil && len(flags.Flags) > 0 {
		names := make([]string, 0, len(flags.Flags))
		for name := range flags.Flags {
			names = append(names, name)
		}
		slices.Sort(names)

		b.WriteString("\nFlags:\n")
		for _, name := range names {
			flag := flags.Flags[name]
			short := "  "
			if flag.Short != "" {
				short = "-" + flag.Short
			}
			fmt.Fprintf(&b, "  %s, --%-10s %s\n", short, flag.Name, flag.Description)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
