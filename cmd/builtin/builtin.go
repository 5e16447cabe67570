// Package builtin provides the commands of the explorer shell.
package builtin

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/mwantia/backup-explorer/cmd"
	"github.com/mwantia/backup-explorer/data"
	"github.com/mwantia/backup-explorer/log"
	"github.com/mwantia/backup-explorer/report"
)

var (
	ErrNoReport    = errors.New("no comparison has been run yet")
	ErrNoSelection = errors.New("no backup selected")
)

// Session holds the state shared between commands of one shell.
type Session struct {
	mu     sync.Mutex
	report *report.Report

	Log       *log.Logger
	Exporters []report.Exporter
}

func (s *Session) SetReport(r *report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.report = r
}

func (s *Session) Report() (*report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.report == nil {
		return nil, ErrNoReport
	}
	return s.report, nil
}

// Commands returns every builtin command. help lists the commands of manager.
func Commands(session *Session, manager *cmd.Manager) []cmd.Command {
	return []cmd.Command{
		&OpenCommand{},
		&ListCommand{},
		&SelectCommand{},
		&TreeCommand{},
		&CompareCommand{session: session},
		&CompareAllCommand{session: session},
		&SummaryCommand{session: session},
		&ExportCommand{session: session},
		&DiffCommand{},
		&HelpCommand{manager: manager},
	}
}

// resolveBackup finds a backup by fileset id, or the selection when ref is empty.
func resolveBackup(api cmd.API, ref string) (*data.Backup, error) {
	if ref == "" {
		if selected := api.Selected(); selected != nil {
			return selected, nil
		}
		return nil, ErrNoSelection
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid fileset id '%s'", ref)
	}

	backup, ok := api.Backup(id)
	if !ok {
		return nil, fmt.Errorf("fileset %d not found", id)
	}
	return backup, nil
}

var pathFlag = &cmd.CommandFlag{
	Name:        "path",
	Short:       "p",
	Type:        cmd.FlagString,
	Description: "Restrict the left side to the files below this directory",
}

var depthFlag = &cmd.CommandFlag{
	Name:        "depth",
	Short:       "d",
	Type:        cmd.FlagInt,
	Default:     int64(2),
	Description: "Number of directory levels to print, 0 for all",
}

// leftTree returns the tree of backup, or its sub tree below path.
func leftTree(tree *data.FileTree, path string) (*data.FileTree, error) {
	if path == "" {
		return tree, nil
	}

	node, ok := tree.Find(path)
	if !ok {
		return nil, fmt.Errorf("path '%s' not found in %s", path, tree.Name)
	}
	return tree.SubTree(node, fmt.Sprintf("%s - %s", tree.Name, node.Name)), nil
}
