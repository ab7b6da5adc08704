package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/akreft/embedmark/embed"
	"github.com/akreft/embedmark/pipeline"
	"github.com/akreft/embedmark/server"
)

var (
	configPath string
	formatFlag string
	listenAddr string
)

var rootCmd = &cobra.Command{
	Use:   "embedmark",
	Short: "Rewrite bare URLs and :directives in markdown into embed components",
	Long: `embedmark renders markdown content with embed rewriting applied: a
paragraph that consists of a single bare URL, or an inline :name[argument]
directive, becomes a component invocation according to the rules in the
configuration file.`,
	SilenceUsage: true,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the content directory into the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		builder, err := newBuilder()
		if err != nil {
			return err
		}
		docs, err := builder.Build()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "built %d documents into %s\n", len(docs), builder.OutputDir())
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build, watch and serve the site with live reload",
	RunE: func(cmd *cobra.Command, args []string) error {
		builder, err := newBuilder()
		if err != nil {
			return err
		}
		return server.New(builder).Run(listenAddr)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one markdown document from stdin to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		builder, err := newBuilder()
		if err != nil {
			return err
		}
		source, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		doc, err := builder.RenderDocument("stdin", source)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), doc.Body)
		return err
	},
}

func newBuilder() (*pipeline.Builder, error) {
	cfg, err := pipeline.Load(configPath)
	if err != nil {
		return nil, err
	}
	if formatFlag != "" {
		cfg.Format = embed.Format(formatFlag)
	}
	return pipeline.NewBuilder(cfg)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "embedmark.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "output format override (element or jsx)")
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "listen address for the preview server")

	rootCmd.AddCommand(buildCmd, serveCmd, renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
