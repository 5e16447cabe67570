package builtin

import (
	"context"
	"io"

	"github.com/mwantia/backup-explorer/cmd"
)

type SummaryCommand struct {
	session *Session
}

func (*SummaryCommand) Name() string {
	return "summary"
}

func (*SummaryCommand) Description() string {
	return "Print the result of the last comparison"
}

func (*SummaryCommand) Usage() string {
	return "summary [-d depth] [--json]"
}

func (s *SummaryCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	r, err := s.session.Report()
	if err != nil {
		return 1, err
	}

	if args.Bool("json") {
		content, err := r.JSON()
		if err != nil {
			return 1, err
		}
		if _, err := writer.Write(append(content, '\n')); err != nil {
			return 1, err
		}
		return 0, nil
	}

	return 0, r.WriteText(writer, int(args.Int("depth")))
}

func (*SummaryCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"depth": depthFlag,
			"json": {
				Name:        "json",
				Short:       "j",
				Type:        cmd.FlagBool,
				Description: "Print the full report as JSON",
			},
		},
	}
}
