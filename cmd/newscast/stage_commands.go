package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"newscast/internal/news"
)

// The stage commands run one pipeline phase each, passing intermediate
// results through JSON files so a week's run can be inspected or
// resumed by hand.

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var output string
	var sourceName string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch new content from the configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if sourceName != "" {
				var kept bool
				sources := cfg.Sources
				cfg.Sources = nil
				for _, source := range sources {
					if source.Name == sourceName {
						cfg.Sources = append(cfg.Sources, source)
						kept = true
					}
				}
				if !kept {
					return fmt.Errorf("unknown source %q", sourceName)
				}
			}
			ingestor, err := ctx.newIngestor()
			if err != nil {
				return err
			}
			content := ingestor.Run(cmd.Context())
			return writeJSONOutput(cmd, output, content)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write ingested content JSON to this file")
	cmd.Flags().StringVar(&sourceName, "source", "", "Ingest only the named source")
	return cmd
}

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var input string
	var output string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Cluster ingested content into themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			var content news.Content
			if err := readJSONInput(input, &content); err != nil {
				return err
			}
			summarizer, err := ctx.newSummarizer()
			if err != nil {
				return err
			}
			summary, err := summarizer.Summarize(cmd.Context(), content)
			if err != nil {
				return err
			}
			return writeJSONOutput(cmd, output, summary)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Ingested content JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write theme summary JSON to this file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newScriptCommand(ctx *commandContext) *cobra.Command {
	var input string
	var output string

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Generate the two-speaker episode script",
		RunE: func(cmd *cobra.Command, args []string) error {
			var summary news.Summary
			if err := readJSONInput(input, &summary); err != nil {
				return err
			}
			generator, err := ctx.newScriptGenerator()
			if err != nil {
				return err
			}
			segments, err := generator.Generate(cmd.Context(), summary)
			if err != nil {
				return err
			}
			if output == "" {
				for _, segment := range segments {
					fmt.Fprintf(cmd.OutOrStdout(), "[%s]: %s\n", strings.ToUpper(segment.Speaker), segment.Text)
				}
				return nil
			}
			return writeJSONOutput(cmd, output, segments)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Theme summary JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write script JSON to this file (default prints the script)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newTTSCommand(ctx *commandContext) *cobra.Command {
	var input string
	var output string

	cmd := &cobra.Command{
		Use:   "tts",
		Short: "Synthesize script segments to MP3 files",
		RunE: func(cmd *cobra.Command, args []string) error {
			var segments []news.ScriptSegment
			if err := readJSONInput(input, &segments); err != nil {
				return err
			}
			synthesizer, err := ctx.newSynthesizer()
			if err != nil {
				return err
			}
			paths, err := synthesizer.SynthesizeScript(cmd.Context(), segments, output)
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Script JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Directory for segment files (default a temp directory)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newAudioCommand(ctx *commandContext) *cobra.Command {
	var input string
	var output string

	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Stitch segment files into the episode MP3",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			segments, err := filepath.Glob(filepath.Join(input, "segment_*.mp3"))
			if err != nil {
				return err
			}
			if len(segments) == 0 {
				return fmt.Errorf("no segment files found under %s", input)
			}
			sort.Strings(segments)

			if output == "" {
				output = filepath.Join(cfg.EpisodesDir(),
					fmt.Sprintf("episode_%s.mp3", time.Now().UTC().Format("2006-01-02")))
			}
			stitcher, err := ctx.newStitcher()
			if err != nil {
				return err
			}
			if err := stitcher.Stitch(cmd.Context(), segments, output); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Directory containing segment_*.mp3 files")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Episode MP3 path (default under the site episodes directory)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Insert a finished episode into the RSS feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			stitcher, err := ctx.newStitcher()
			if err != nil {
				return err
			}
			publisher, err := ctx.newPublisher()
			if err != nil {
				return err
			}
			seconds, err := stitcher.DurationSeconds(input)
			if err != nil {
				return err
			}
			episode, err := publisher.Metadata(input, seconds, time.Now())
			if err != nil {
				return err
			}
			if err := publisher.Publish(episode); err != nil {
				return err
			}
			return writeJSON(cmd, episode)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Episode MP3 file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
