package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Devayan28/Outfitron/config"
	"github.com/Devayan28/Outfitron/report"
	"github.com/Devayan28/Outfitron/service"
	"github.com/Devayan28/Outfitron/utils"
)

type options struct {
	SelfiePath   string
	FullBodyPath string
	ConfigPath   string
	OutputPath   string
	JSON         bool
	Verbose      bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags accepts the two images either as -selfie/-fullbody or as positional arguments.
func parseFlags(args []string, output io.Writer) (options, error) {
	opts := options{}
	fs := flag.NewFlagSet("outfitron", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.SelfiePath, "selfie", "", "Path to the selfie image")
	fs.StringVar(&opts.FullBodyPath, "fullbody", "", "Path to the full-body image")
	fs.StringVar(&opts.ConfigPath, "config", "config.yaml", "Config file")
	fs.StringVar(&opts.OutputPath, "output", "", "Report image path (defaults to report.output_path)")
	fs.StringVar(&opts.OutputPath, "o", "", "Report image path (shorthand)")
	fs.BoolVar(&opts.JSON, "json", false, "Print the result as JSON instead of text")
	fs.BoolVar(&opts.Verbose, "v", false, "Log pipeline progress to stderr")

	fs.Usage = func() {
		fmt.Fprintf(output, "Outfitron - skin tone, body shape and style recommendations\n\n")
		fmt.Fprintf(output, "Usage: outfitron [options] <selfie> <fullbody>\n\n")
		fmt.Fprintf(output, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(output, "\nExamples:\n")
		fmt.Fprintf(output, "  outfitron selfie.jpg body.jpg\n")
		fmt.Fprintf(output, "  outfitron -selfie selfie.jpg -fullbody body.jpg -o report.jpg\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	rest := fs.Args()
	if opts.SelfiePath == "" && len(rest) > 0 {
		opts.SelfiePath, rest = rest[0], rest[1:]
	}
	if opts.FullBodyPath == "" && len(rest) > 0 {
		opts.FullBodyPath, rest = rest[0], rest[1:]
	}
	var err error
	switch {
	case opts.SelfiePath == "" || opts.FullBodyPath == "":
		err = errors.New("both a selfie and a full-body image are required")
	case len(rest) > 0:
		err = fmt.Errorf("unexpected arguments: %v", rest)
	}
	if err != nil {
		fmt.Fprintf(output, "Error: %v\n\n", err)
		fs.Usage()
		return opts, err
	}
	return opts, nil
}

func run(opts options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if opts.Verbose {
		if err := utils.InitLogger("debug"); err != nil {
			return err
		}
		defer utils.Sync()
	}

	selfie, err := os.ReadFile(opts.SelfiePath)
	if err != nil {
		return fmt.Errorf("read selfie: %w", err)
	}
	fullBody, err := os.ReadFile(opts.FullBodyPath)
	if err != nil {
		return fmt.Errorf("read full-body image: %w", err)
	}

	faces, poses, err := service.NewDetectors(&cfg.Vision)
	if err != nil {
		return err
	}
	analyzer := service.NewAnalyzer(faces, poses, &cfg.Analysis, &cfg.Vision, service.WithLogger(utils.Logger))
	defer analyzer.Close()

	fmt.Fprintln(os.Stderr, "Starting dual-image analysis...")
	result, err := analyzer.Analyze(context.Background(), selfie, fullBody)
	if err != nil {
		return err
	}
	result.Key = utils.PairKey(selfie, fullBody)

	if opts.JSON {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else if err := report.WriteSummary(os.Stdout, result); err != nil {
		return err
	}

	reportPath := opts.OutputPath
	if reportPath == "" {
		reportPath = cfg.Report.OutputPath
	}
	if err := report.WriteFile(reportPath, selfie, fullBody, result); err != nil {
		return err
	}
	utils.Logger.Debug("report written", zap.String("path", reportPath))
	fmt.Fprintf(os.Stderr, "\nVisual report saved as '%s'\n", reportPath)
	return nil
}
