package builtin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/backup-explorer/cmd"
	"github.com/mwantia/backup-explorer/data"
)

type TreeCommand struct{}

func (*TreeCommand) Name() string {
	return "tree"
}

func (*TreeCommand) Description() string {
	return "Print the file tree of a backup"
}

func (*TreeCommand) Usage() string {
	return "tree [-d depth] [-p path] [id]"
}

func (*TreeCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	backup, err := resolveBackup(api, args.Arg(0, ""))
	if err != nil {
		return 1, err
	}

	tree, err := api.FileTree(ctx, backup)
	if err != nil {
		return 1, err
	}

	root := tree.Root()
	if path := args.String("path"); path != "" {
		node, ok := tree.Find(path)
		if !ok {
			return 1, fmt.Errorf("path '%s' not found in %s", path, tree.Name)
		}
		root = node
	}

	fmt.Fprintf(writer, "%s (%d files, %s)\n", tree.Name, tree.FileCount(), humanize.Bytes(uint64(max(tree.Size(), 0))))
	return 0, PrintTree(writer, root, int(args.Int("depth")))
}

func (*TreeCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"depth": depthFlag,
			"path":  pathFlag,
		},
	}
}

// PrintTree writes the children of node indented by level, up to depth
// levels. A depth of 0 prints every level.
func PrintTree(w io.Writer, node *data.FileNode, depth int) error {
	var b strings.Builder
	printNode(&b, node, 0, depth)

	_, err := io.WriteString(w, b.String())
	return err
}

func printNode(b *strings.Builder, node *data.FileNode, level, depth int) {
	if depth > 0 && level >= depth {
		return
	}

	for _, child := range node.Children() {
		name := child.Name
		if !child.IsFile {
			name += "/"
		}
		fmt.Fprintf(b, "%s%s  %s", strings.Repeat("  ", level), name, humanize.Bytes(uint64(max(child.NodeSize(), 0))))
		if child.IsFile && child.Result != data.ResultNone {
			fmt.Fprintf(b, "  %s", child.Result)
		}
		b.WriteString("\n")

		if !child.IsFile {
			printNode(b, child, level+1, depth)
		}
	}
}
