// Package formatter renders a final permutation set as CLI/CSV/JSON/
// plain-list text, per spec.md §4.5.
package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/net/idna"

	"github.com/sparrowsec/twistgo/internal/fuzzer"
)

// Formatter renders a []fuzzer.Permutation. DNSAll controls whether
// every DNS value in a field is shown or just the first.
type Formatter struct {
	permutations []fuzzer.Permutation
	DNSAll       bool
}

// NewFormatter builds a Formatter over permutations. Filtering by
// registered/unregistered is the caller's responsibility
// (pkg/dnstwist), matching the teacher's existing filter placement.
func NewFormatter(permutations []fuzzer.Permutation) *Formatter {
	return &Formatter{permutations: permutations}
}

// Format renders permutations in the named format: cli, csv, json, or
// list. An unrecognized format renders as list.
func (f *Formatter) Format(format string) string {
	switch format {
	case "json":
		return f.json()
	case "csv":
		return f.csv()
	case "cli":
		return f.cli(os.Stdout)
	default:
		return f.list()
	}
}

func (f *Formatter) list() string {
	var b strings.Builder
	for _, p := range f.permutations {
		b.WriteString(p.Domain)
		b.WriteString("\n")
	}
	return b.String()
}

func (f *Formatter) json() string {
	out := make([]map[string]any, 0, len(f.permutations))
	for _, p := range f.permutations {
		out = append(out, f.toMap(p))
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// toMap produces the fields a permutation carries, to be serialized by
// encoding/json (which sorts map keys itself when asked to marshal a
// map[string]any) or joined into a CSV row.
func (f *Formatter) toMap(p fuzzer.Permutation) map[string]any {
	m := map[string]any{
		"fuzzer": p.Fuzzer,
		"domain": p.Domain,
	}
	if p.Annotations == nil {
		return m
	}
	a := p.Annotations
	addDNS := func(key string) {
		vals := a.DNS[key]
		if len(vals) == 0 {
			return
		}
		if !f.DNSAll {
			vals = vals[:1]
		}
		m["dns_"+key] = vals
	}
	addDNS("ns")
	addDNS("a")
	addDNS("aaaa")
	addDNS("mx")
	if a.GeoIP != "" {
		m["geoip"] = a.GeoIP
	}
	if a.BannerHTTP != "" {
		m["banner_http"] = a.BannerHTTP
	}
	if a.BannerSMTP != "" {
		m["banner_smtp"] = a.BannerSMTP
	}
	if a.MXSpy {
		m["mx_spy"] = true
	}
	if a.SSDeep != nil {
		m["ssdeep"] = *a.SSDeep
	}
	if a.TLSH != nil {
		m["tlsh"] = *a.TLSH
	}
	if a.PHash != nil {
		m["phash"] = *a.PHash
	}
	if a.WhoisCreated != "" {
		m["whois_created"] = a.WhoisCreated
	}
	if a.WhoisRegistrar != "" {
		m["whois_registrar"] = a.WhoisRegistrar
	}
	return m
}

func (f *Formatter) csv() string {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := []string{"fuzzer", "domain"}
	extra := f.extraFieldNames()
	header = append(header, extra...)
	w.Write(header)

	for _, p := range f.permutations {
		m := f.toMap(p)
		row := []string{p.Fuzzer, p.Domain}
		for _, field := range extra {
			row = append(row, csvValue(m[field]))
		}
		w.Write(row)
	}

	w.Flush()
	return buf.String()
}

// extraFieldNames collects every annotation field present across the
// set, alphabetized, so the header is stable regardless of row order.
func (f *Formatter) extraFieldNames() []string {
	seen := map[string]bool{}
	for _, p := range f.permutations {
		for k := range f.toMap(p) {
			if k != "fuzzer" && k != "domain" {
				seen[k] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func csvValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case []string:
		return strings.Join(val, ";")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// cli renders an aligned, optionally ANSI-colored table. Color is
// suppressed on non-TTY output, per spec.md §6.
func (f *Formatter) cli(w io.Writer) string {
	useColor := isatty.IsTerminal(os.Stdout.Fd())

	maxFuzzer, maxDomain := 0, 0
	for _, p := range f.permutations {
		if len(p.Fuzzer) > maxFuzzer {
			maxFuzzer = len(p.Fuzzer)
		}
		if dl := len(displayDomain(p.Domain)); dl > maxDomain {
			maxDomain = dl
		}
	}

	var b strings.Builder
	for _, p := range f.permutations {
		fuzzerCol := fmt.Sprintf("%-*s", maxFuzzer+1, p.Fuzzer)
		domainCol := fmt.Sprintf("%-*s", maxDomain+1, displayDomain(p.Domain))
		if useColor {
			fuzzerCol = color.New(color.FgCyan).Sprint(fuzzerCol)
		}
		b.WriteString(fuzzerCol)
		b.WriteString(domainCol)
		b.WriteString(cliInfo(p, useColor, f.DNSAll))
		b.WriteString("\n")
	}
	return b.String()
}

func cliInfo(p fuzzer.Permutation, useColor, dnsAll bool) string {
	if p.Annotations == nil {
		return "-"
	}
	a := p.Annotations
	var info []string

	dnsField := func(key string) []string {
		vals := a.DNS[key]
		if !dnsAll && len(vals) > 1 {
			vals = vals[:1]
		}
		return vals
	}
	if vals := dnsField("a"); len(vals) > 0 {
		info = append(info, strings.Join(vals, ";"))
	}
	if vals := dnsField("aaaa"); len(vals) > 0 {
		info = append(info, strings.Join(vals, ";"))
	}
	if vals := dnsField("ns"); len(vals) > 0 {
		info = append(info, "NS:"+strings.Join(vals, ";"))
	}
	if vals := dnsField("mx"); len(vals) > 0 {
		info = append(info, "MX:"+strings.Join(vals, ";"))
	}
	if a.GeoIP != "" {
		geo := "/" + a.GeoIP
		if useColor {
			geo = color.New(color.FgYellow).Sprint(geo)
		}
		info = append(info, geo)
	}
	if a.BannerHTTP != "" {
		info = append(info, "HTTP:"+a.BannerHTTP)
	}
	if a.BannerSMTP != "" {
		info = append(info, "SMTP:"+a.BannerSMTP)
	}
	if a.MXSpy {
		spy := "SPYING-MX"
		if useColor {
			spy = color.New(color.FgRed).Sprint(spy)
		}
		info = append(info, spy)
	}
	if a.SSDeep != nil {
		info = append(info, fmt.Sprintf("ssdeep=%d%%", *a.SSDeep))
	}
	if a.TLSH != nil {
		info = append(info, fmt.Sprintf("tlsh=%d%%", *a.TLSH))
	}
	if a.PHash != nil {
		info = append(info, fmt.Sprintf("phash=%d%%", *a.PHash))
	}
	if a.WhoisCreated != "" {
		info = append(info, "created:"+a.WhoisCreated)
	}
	if a.WhoisRegistrar != "" {
		info = append(info, "registrar:"+a.WhoisRegistrar)
	}

	if len(info) == 0 {
		return "-"
	}
	return strings.Join(info, " ")
}

// displayDomain decodes a Punycode A-label back to Unicode for
// human-facing CLI output, falling back to the A-label on failure.
func displayDomain(domain string) string {
	u, err := idna.Lookup.ToUnicode(domain)
	if err != nil {
		return domain
	}
	return u
}
