// Command fsamock loads a mock configuration, builds the instance, and
// prints the resulting tree and disk stats. It exists to smoke-test
// config files before they are used as test fixtures.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alxcube/fsa-mock/internal/logger"
	"github.com/alxcube/fsa-mock/pkg/config"
	"github.com/alxcube/fsa-mock/pkg/filesystem"
	"github.com/alxcube/fsa-mock/pkg/fsamock"
	"github.com/alxcube/fsa-mock/pkg/paths"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config file (default: search standard locations)")
	logLevel := pflag.String("log-level", "", "override the configured log level (DEBUG, INFO, WARN, ERROR)")
	pflag.Parse()

	if err := run(*configPath, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "fsamock: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logLevel string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	mock, err := config.CreateMock(cfg)
	if err != nil {
		return err
	}
	if logLevel != "" {
		logger.SetLevel(logLevel)
	}

	printTree(mock)
	printDiskStats(mock)
	return nil
}

// printTree lists every entry, indented by depth.
func printTree(mock *fsamock.Mock) {
	fs := mock.FileSystem()

	fmt.Println("/")
	for _, path := range fs.GetDescendantPaths("") {
		indent := strings.Repeat("  ", paths.Depth(path))

		if fs.IsDirectory(path) {
			fmt.Printf("%s%s/\n", indent, paths.Basename(path))
			continue
		}

		size, _ := fs.GetFileSize(path)
		fmt.Printf("%s%s (%d bytes)\n", indent, paths.Basename(path), size)
	}
}

func printDiskStats(mock *fsamock.Mock) {
	fs := mock.FileSystem()

	fmt.Printf("\nused: %d bytes\n", fs.UsedDiskSpace())
	if total := fs.TotalDiskSpace(); total == filesystem.Unlimited {
		fmt.Println("capacity: unlimited")
	} else {
		fmt.Printf("capacity: %d bytes (%d free)\n", total, fs.FreeDiskSpace())
	}
}
