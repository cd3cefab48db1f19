package main

import (
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/matracker/internal/feed"
)

var (
	cacheSaveName string
	cacheSaveFile string
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached snapshots of blocked feeds",
}

var cacheSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save feed XML for a blocked feed, from a file or stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		var content []byte
		var err error
		if cacheSaveFile != "" {
			content, err = os.ReadFile(cacheSaveFile)
			if err != nil {
				return eris.Wrap(err, "read content file")
			}
		} else {
			content, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return eris.Wrap(err, "read stdin")
			}
		}
		if len(strings.TrimSpace(string(content))) == 0 {
			return eris.New("no feed content provided")
		}

		cache, err := feed.NewCache(cfg.Feeds.CacheDir)
		if err != nil {
			return err
		}

		entry, err := cache.Save(cacheSaveName, content)
		if err != nil {
			return err
		}

		zap.L().Info("feed cached",
			zap.String("feed", entry.FeedName),
			zap.String("path", entry.Filepath),
			zap.Int64("size_bytes", entry.SizeBytes),
		)
		cmd.Printf("Feed cached to %s\n", entry.Filepath)
		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := feed.NewCache(cfg.Feeds.CacheDir)
		if err != nil {
			return err
		}

		entries, err := cache.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("No cached feeds found.")
			return nil
		}

		cmd.Printf("Cached feeds in %s:\n", cache.Dir())
		for _, e := range entries {
			cmd.Printf("  - %s (%s)\n", e.FeedName, e.Filename)
			cmd.Printf("    Cached at: %s\n", e.CachedAt)
			cmd.Printf("    Size: %d bytes\n", e.SizeBytes)
		}
		return nil
	},
}

func init() {
	cacheSaveCmd.Flags().StringVar(&cacheSaveName, "name", "", "feed name identifier (required)")
	cacheSaveCmd.Flags().StringVar(&cacheSaveFile, "file", "", "path to feed content file (default stdin)")
	_ = cacheSaveCmd.MarkFlagRequired("name")

	cacheCmd.AddCommand(cacheSaveCmd)
	cacheCmd.AddCommand(cacheListCmd)
	rootCmd.AddCommand(cacheCmd)
}
