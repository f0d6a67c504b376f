package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sparrowsec/twistgo/pkg/dnstwist"
)

const version = "1.0.0"

// defaultUserAgent follows spec.md §6's Mozilla/5.0 (<platform>)
// dnstwist/<version> form.
var defaultUserAgent = fmt.Sprintf("Mozilla/5.0 (%s) dnstwist/%s", runtime.GOOS, version)

var (
	options dnstwist.Options
	output  string
	verbose bool

	rootCmd = &cobra.Command{
		Use:     "twistgo",
		Short:   "Domain name permutation engine for detecting typosquatting and phishing",
		Long:    `twistgo generates domain name permutations and scans them for DNS registration, MX spoofing, and content similarity to the original.`,
		Version: version,
		RunE:    run,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := dnstwist.New(options)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	results, err := engine.GetResults(ctx)
	if err != nil {
		return fmt.Errorf("running scan: %w", err)
	}

	rendered := engine.Format(results, "")

	if output == "" {
		fmt.Print(rendered)
		return nil
	}
	if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	log.Info().Str("path", output).Msg("wrote results")
	return nil
}

func init() {
	flags := rootCmd.Flags()

	flags.StringVarP(&options.Domain, "domain", "d", "", "URL or domain name to analyze (required)")
	flags.BoolVarP(&options.All, "all", "a", false, "print all DNS records instead of the first one")
	flags.BoolVarP(&options.Registered, "registered", "r", false, "show only registered domain names")
	flags.BoolVarP(&options.Unregistered, "unregistered", "u", false, "show only unregistered domain names")
	flags.StringVar(&options.Dictionary, "dictionary", "", "generate more domains using a dictionary file")
	flags.StringVar(&options.TLD, "tld", "", "TLD dictionary file for domain-triple splitting and tld-swap")
	flags.StringSliceVar(&options.Fuzzers, "fuzzers", nil, "restrict to a comma-separated subset of fuzzers")
	flags.StringSliceVarP(&options.Nameservers, "nameservers", "n", nil, "comma-separated DNS servers (host:port) or https:// DoH endpoints")
	flags.IntVarP(&options.Threads, "threads", "t", 0, "number of concurrent scanner workers (0 = auto)")
	flags.StringVar(&options.UserAgent, "useragent", defaultUserAgent, "User-Agent header for the HTTP banner request")
	flags.StringVar(&options.GeoIPPath, "geoip", "", "path to a GeoLite2-Country database; enables geolocation")
	flags.BoolVarP(&options.Banners, "banners", "b", false, "determine HTTP and SMTP service banners")
	flags.BoolVarP(&options.MXCheck, "mxcheck", "m", false, "check whether a permutation's MX host accepts mail for arbitrary recipients at that permutation")
	flags.BoolVarP(&options.NSCheck, "nscheck", "x", false, "check for nameserver records")
	flags.StringVar(&options.LSH, "lsh", "", "content-similarity digest algorithm: ssdeep or tlsh")
	flags.StringVar(&options.LSHURL, "lsh-url", "", "override URL to fetch the baseline page from")
	flags.BoolVarP(&options.PHash, "phash", "p", false, "render pages headlessly and compare perceptual hashes")
	flags.BoolVarP(&options.Screenshots, "screenshots", "s", false, "enable the headless-browser renderer required by --phash")
	flags.BoolVarP(&options.Whois, "whois", "w", false, "look up WHOIS creation date and registrar for registered domains")
	flags.StringVarP(&options.Format, "format", "f", "cli", "output format: cli, csv, json, or list")
	flags.StringVarP(&output, "output", "o", "", "write output to this file instead of stdout")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.MarkFlagRequired("domain")
}
