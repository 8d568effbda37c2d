package qfx

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

const eodhd_api_key = "EODHD_API_KEY"

var eodhdApiFlag = flag.String("eodhd-api-key", "", "EODHD API key to use for classifying securities with EODHD.com.\n If missing it will read the environment variable \""+eodhd_api_key+"\". You can get one at https://eodhd.com/")

// EodhdApiKey returns the API key from the flag, or from the environment
// when the flag is not set. Empty means the remote classifier is not
// configured.
func EodhdApiKey() string {
	if *eodhdApiFlag == "" {
		*eodhdApiFlag = os.Getenv(eodhd_api_key)
	}
	return *eodhdApiFlag
}

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// get from disk
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	logf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		logf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// returns a client with a cache all with daily expire
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

// EODHD is a Classifier backed by the eodhd.com search API: a symbol whose
// best match reports a fund-like instrument type classifies as a fund, and
// a symbol without any match classifies as a fund too, like a symbol absent
// from local listings would.
//
// Lookups are memoized for the life of the classifier, and the HTTP client
// caches responses on disk for a day, so re-running a conversion does not
// re-query the API.
type EODHD struct {
	apiKey string
	client *http.Client
	memo   map[string]bool
}

// NewEODHD returns a remote classifier using the given API key.
func NewEODHD(apiKey string) *EODHD {
	return &EODHD{apiKey: apiKey, client: daily(), memo: make(map[string]bool)}
}

// IsFund implements Classifier through the search API.
func (e *EODHD) IsFund(symbol string) (bool, error) {
	if symbol == "" {
		return true, nil
	}
	if fund, ok := e.memo[symbol]; ok {
		return fund, nil
	}
	typ, err := e.search(symbol)
	if err != nil {
		return false, err
	}
	fund := typ == "" || isFundType(typ)
	e.memo[symbol] = fund
	return fund, nil
}

// eodhdHost is a variable so tests can point lookups at a stub server.
var eodhdHost = "https://eodhd.com"

// search returns the instrument type of the best match for symbol, or the
// empty string when the API knows no such instrument.
//
//	https://eodhd.com/api/search/VFIAX?api_token=...&fmt=json
//	[
//	  {
//	    "Code": "VFIAX",
//	    "Exchange": "US",
//	    "Name": "Vanguard 500 Index Fund Admiral Shares",
//	    "Type": "FUND",
//	    ...
func (e *EODHD) search(symbol string) (string, error) {
	addr := fmt.Sprintf("%s/api/search/%s?fmt=json&api_token=%s", eodhdHost, url.PathEscape(symbol), e.apiKey)
	var jobj any
	if err := jwget(e.client, addr, &jobj); err != nil {
		return "", fmt.Errorf("eodhd search %q: %w", symbol, err)
	}
	path := "$[0].Type"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		// no match at all for that symbol
		return "", nil
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	typ, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("eodhd search %q: %q is not a string: %v", symbol, path, jval)
	}
	return typ, nil
}

// isFundType reports whether an instrument type reported by the API is fund
// like. ETFs trade like stocks and stay equities.
func isFundType(typ string) bool {
	t := strings.ToLower(typ)
	if strings.Contains(t, "etf") {
		return false
	}
	return strings.Contains(t, "fund")
}
