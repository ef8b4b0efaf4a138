// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rdapkit/rdap"
	"github.com/rdapkit/rdap/bootstrap"
	"github.com/rdapkit/rdap/bootstrap/cache"
	"github.com/rdapkit/rdap/check"
	"github.com/rdapkit/rdap/conformance"

	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var (
	version   = "rdap v0.0.1"
	usageText = version + `

Usage: rdap [OPTIONS] DOMAIN|IP|ASN|ENTITY|NAMESERVER|RDAP-URL
  e.g. rdap google.cz
       rdap 192.0.2.0
       rdap 2001:db8::
       rdap AS2856
       rdap https://rdap.nic.cz/domain/example.cz
       rdap --conformance example.com

Options:
  -h, --help          Show help message.
  -v, --verbose       Print verbose messages on STDERR.

  -T, --timeout=SECS  Timeout after SECS seconds (default: 30).
  -k, --insecure      Disable SSL certificate verification.

Output Options:
  -j, --json          Output the full parsed response as JSON.
  -r, --raw           Output the server's raw response body, unparsed.
      --checks        Print the check-engine findings for the response.

Advanced options (query):
  -s  --server=URL    RDAP server to query.
  -t  --type=TYPE     RDAP query type. Normally auto-detected.

Advanced options (bootstrapping):
      --cache-dir=DIR Bootstrap cache directory to use. Specify empty string
                      to disable bootstrap caching. (default: $HOME/.openrdap).
      --bs-url=URL    Bootstrap service URL (default: https://data.iana.org/rdap)
      --bs-ttl=SECS   Bootstrap cache time in seconds (default: 3600)

Conformance tester options:
      --conformance        Run the conformance tester instead of a single query.
      --skip-v4            Skip IPv4 test runs.
      --skip-v6             Skip IPv6 test runs.
      --skip-origin         Skip the Origin-header test runs.
      --one-addr            Test only the first address of each family.
      --chase-referral      Retarget to the first "related" link before testing.
      --origin=VALUE        Origin header value for the Origin-header runs.
      --dns-resolver=ADDR   DNS resolver to query (default: system resolver).
      --expect-extension=ID       Require rdapConformance to contain ID (repeatable; "a|b" means "a or b").
      --expect-group=NAME         Require rdapConformance to satisfy group NAME (gtld, nro, nro_asn).
      --allow-unregistered-extensions  Don't flag unrecognized extension ids.
`
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	start := time.Now()

	app := kingpin.New("rdap", "RDAP command-line client")
	app.HelpFlag.Short('h')
	app.UsageTemplate(usageText)
	app.UsageWriter(stderr)

	verboseFlag := app.Flag("verbose", "").Short('v').Bool()
	timeoutFlag := app.Flag("timeout", "").Short('T').Default("30").Uint16()
	insecureFlag := app.Flag("insecure", "").Short('k').Bool()
	jsonFlag := app.Flag("json", "").Short('j').Bool()
	rawFlag := app.Flag("raw", "").Short('r').Bool()
	checksFlag := app.Flag("checks", "").Bool()

	queryTypeFlag := app.Flag("type", "").Short('t').String()
	serverFlag := app.Flag("server", "").Short('s').String()

	cacheDirFlag := app.Flag("cache-dir", "").Default("default").String()
	bootstrapURLFlag := app.Flag("bs-url", "").Default("default").String()
	bootstrapTimeoutFlag := app.Flag("bs-ttl", "").Default("3600").Uint32()

	conformanceFlag := app.Flag("conformance", "").Bool()
	skipV4Flag := app.Flag("skip-v4", "").Bool()
	skipV6Flag := app.Flag("skip-v6", "").Bool()
	skipOriginFlag := app.Flag("skip-origin", "").Bool()
	oneAddrFlag := app.Flag("one-addr", "").Bool()
	chaseReferralFlag := app.Flag("chase-referral", "").Bool()
	originFlag := app.Flag("origin", "").String()
	dnsResolverFlag := app.Flag("dns-resolver", "").String()
	expectExtensionFlag := app.Flag("expect-extension", "").Strings()
	expectGroupFlag := app.Flag("expect-group", "").Strings()
	allowUnregisteredFlag := app.Flag("allow-unregistered-extensions", "").Bool()

	queryArgs := app.Arg("", "").Strings()

	if _, err := app.Parse(args); err != nil {
		printError(stderr, fmt.Sprintf("Error: %s\n\n%s", err, usageText))
		return 1
	}

	verbose := func(text string) {}
	if *verboseFlag {
		verbose = func(text string) { fmt.Fprintf(stderr, "# %s\n", text) }
	}
	verbose(version)

	if *queryTypeFlag != "help" && len(*queryArgs) == 0 {
		printError(stderr, "Query object required, e.g. rdap google.cz")
		return 1
	}

	queryText := ""
	if len(*queryArgs) > 0 {
		queryText = (*queryArgs)[0]
	}

	q, err := classifyQuery(queryText, *queryTypeFlag)
	if err != nil {
		printError(stderr, fmt.Sprintf("Error: %s", err))
		return 1
	}

	bs := newBootstrapClient(verbose, *cacheDirFlag, *bootstrapURLFlag, *bootstrapTimeoutFlag)

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: *insecureFlag},
	}
	httpClient := &http.Client{Transport: transport}

	client := rdap.NewClient()
	client.HTTP = httpClient
	client.Bootstrap = bs
	client.UserAgent = version
	client.Verbose = verbose
	client.AllowPlainHTTP = false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeoutFlag)*time.Second)
	defer cancel()

	bc := rdap.DefaultBootstrapConfig()
	if *serverFlag != "" {
		serverURL, err := url.Parse(*serverFlag)
		if err != nil {
			printError(stderr, fmt.Sprintf("--server error: %s", err))
			return 1
		}
		bc.Mode = rdap.BootstrapURL
		bc.Url = serverURL.String()
	}

	if *conformanceFlag {
		opts := conformance.DefaultOptions()
		opts.SkipV4 = *skipV4Flag
		opts.SkipV6 = *skipV6Flag
		opts.SkipOrigin = *skipOriginFlag
		opts.OneAddr = *oneAddrFlag
		opts.ChaseReferral = *chaseReferralFlag
		opts.OriginValue = *originFlag
		opts.DNSResolver = *dnsResolverFlag
		opts.Timeout = time.Duration(*timeoutFlag) * time.Second
		opts.AllowInvalidCertificates = *insecureFlag
		opts.ExpectExtensions = *expectExtensionFlag
		opts.ExpectGroups = *expectGroupFlag
		opts.AllowUnregisteredExtensions = *allowUnregisteredFlag

		base, err := client.ResolveBaseURL(q, bc)
		if err != nil {
			printError(stderr, fmt.Sprintf("Error: %s", err))
			return 1
		}
		requestURL, err := q.URL(base)
		if err != nil {
			printError(stderr, fmt.Sprintf("Error: %s", err))
			return 1
		}

		report, err := conformance.Run(ctx, requestURL, httpClient, opts)
		if err != nil {
			printError(stderr, fmt.Sprintf("Error: %s", err))
			return 1
		}
		printConformanceReport(stdout, report)
		verbose(fmt.Sprintf("rdap: Finished in %s", time.Since(start)))
		return report.ExitCode()
	}

	result, err := client.QueryWithOptions(ctx, q, bc, rdap.DefaultLinkParams(q.Kind))
	verbose(fmt.Sprintf("rdap: Finished in %s", time.Since(start)))
	if err != nil {
		printError(stderr, fmt.Sprintf("Error: %s", err))
		return 1
	}

	return printResult(stdout, result, *jsonFlag, *rawFlag, *checksFlag, *allowUnregisteredFlag)
}

// classifyQuery builds a QueryType from the auto-detected kind, or the kind
// named by the --type flag when it is non-empty.
func classifyQuery(queryText, queryType string) (*rdap.QueryType, error) {
	if queryType == "" || queryType == "help" {
		if queryType == "help" {
			return rdap.NewHelpQuery(), nil
		}
		return rdap.Classify(queryText)
	}

	switch queryType {
	case "domain", "dns":
		return rdap.NewDomainQuery(queryText)
	case "autnum", "as", "asn":
		autnum := strings.TrimPrefix(strings.ToUpper(queryText), "AS")
		var n uint32
		if _, err := fmt.Sscanf(autnum, "%d", &n); err != nil {
			return nil, fmt.Errorf("invalid ASN %q", queryText)
		}
		return rdap.NewAutNumQuery(n), nil
	case "entity":
		return rdap.NewEntityQuery(queryText), nil
	case "url":
		return rdap.NewURLQuery(queryText), nil
	case "domain-search":
		return rdap.NewDomainNameSearchQuery(queryText), nil
	case "domain-search-by-nameserver":
		return rdap.NewDomainNsNameSearchQuery(queryText), nil
	case "domain-search-by-nameserver-ip":
		return rdap.NewDomainNsIpSearchQuery(queryText), nil
	case "nameserver-search":
		return rdap.NewNameserverNameSearchQuery(queryText), nil
	case "nameserver-search-by-ip":
		return rdap.NewNameserverIpSearchQuery(queryText), nil
	case "entity-search":
		return rdap.NewEntityNameSearchQuery(queryText), nil
	case "entity-search-by-handle":
		return rdap.NewEntityHandleSearchQuery(queryText), nil
	default:
		return nil, fmt.Errorf("unknown query type %q", queryType)
	}
}

func newBootstrapClient(verbose func(string), cacheDir, bootstrapURL string, bootstrapTTL uint32) *bootstrap.Client {
	bs := bootstrap.NewClient()

	switch {
	case cacheDir == "default":
		bs.Cache = cache.NewDiskCache()
		verbose("rdap: Using disk cache (default dir)")
	case cacheDir != "":
		dc := cache.NewDiskCache()
		dc.Dir = cacheDir
		bs.Cache = dc
		verbose(fmt.Sprintf("rdap: Using disk cache (dir=%s)", cacheDir))
	default:
		bs.Cache = cache.NewMemoryCache()
		verbose("rdap: Using in-memory cache")
	}

	if bootstrapURL != "default" {
		baseURL, err := url.Parse(bootstrapURL)
		if err == nil {
			bs.BaseURL = baseURL
			verbose(fmt.Sprintf("rdap: Bootstrap URL set to '%s'", baseURL))
		}
	}

	if bootstrapTTL != 0 {
		bs.Cache.SetTimeout(time.Duration(bootstrapTTL) * time.Second)
	}

	return bs
}

func printResult(stdout io.Writer, result *rdap.Result, asJSON, raw, showChecks, allowUnregistered bool) int {
	if result.Response == nil {
		return 0
	}

	if raw {
		fmt.Fprintln(stdout, string(result.Response.Raw))
		return 0
	}

	if asJSON {
		data, err := json.MarshalIndent(result.Response, "", "  ")
		if err == nil {
			fmt.Fprintln(stdout, string(data))
		}
	} else {
		fmt.Fprintln(stdout, string(result.Response.Raw))
	}

	if showChecks {
		params := check.DefaultParams()
		params.AllowUnregisteredExtensions = allowUnregistered
		tree := check.GetChecks(result.Response, params)
		printCheckTree(stdout, tree, 0)
	}

	return 0
}

func printCheckTree(stdout io.Writer, t check.Tree, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, item := range t.Items {
		fmt.Fprintf(stdout, "%s[%s] %s: %s\n", indent, item.Class, item.Code, item.Text)
	}
	for _, sub := range t.SubTrees {
		printCheckTree(stdout, sub, depth+1)
	}
}

func printConformanceReport(stdout io.Writer, report *conformance.Report) {
	fmt.Fprintf(stdout, "Query: %s\n", report.QueryURL)
	fmt.Fprintf(stdout, "Resolved: v4=%v v6=%v\n", report.Addresses.V4, report.Addresses.V6)
	for _, run := range report.Runs {
		originText := "plain"
		if run.WithOrigin {
			originText = "origin"
		}
		if run.Err != nil {
			fmt.Fprintf(stdout, "  %s %s: error: %s\n", run.Address, originText, run.Err)
			continue
		}
		fmt.Fprintf(stdout, "  %s %s: status=%d duration=%s\n", run.Address, originText, run.StatusCode, run.Duration)
		printCheckTree(stdout, run.Checks, 2)
	}
	for _, f := range report.FailedExpectations {
		fmt.Fprintf(stdout, "  unmet expectation: %s\n", f)
	}
	fmt.Fprintf(stdout, "Exit code: %d\n", report.ExitCode())
}

func printError(stderr io.Writer, text string) {
	fmt.Fprintf(stderr, "# %s\n", text)
}
