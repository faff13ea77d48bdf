package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/vytor/flashstudy/internal/logger"
)

const (
	// MaxSourceChars caps the source text sent to the model.
	MaxSourceChars  = 5000
	truncatedMarker = "\n...[truncated]"
	maxPageBytes    = 5 << 20
)

// ErrBlockedAddress is returned when a source URL resolves to an address on
// the server's own network.
var ErrBlockedAddress = errors.New("source address not allowed")

// SourceFetcher extracts readable text from a page.
type SourceFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

type ReadabilityFetcher struct {
	httpClient *http.Client
	log        *logger.Logger
}

var _ SourceFetcher = (*ReadabilityFetcher)(nil)

type FetcherOption func(*fetcherOptions)

type fetcherOptions struct {
	allowPrivate bool
}

// WithPrivateNetworks lets the fetcher reach loopback and private addresses.
func WithPrivateNetworks() FetcherOption {
	return func(o *fetcherOptions) { o.allowPrivate = true }
}

func NewReadabilityFetcher(timeout time.Duration, opts ...FetcherOption) *ReadabilityFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	var o fetcherOptions
	for _, opt := range opts {
		opt(&o)
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	if !o.allowPrivate {
		dialer.Control = refusePrivate
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &ReadabilityFetcher{
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		log:        logger.Default().WithPrefix("fetcher"),
	}
}

// refusePrivate runs after DNS resolution, so it also covers redirects and
// host names that point inward.
func refusePrivate(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	ip := ap.Addr().Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ip)
	}
	return nil
}

// Fetch downloads rawURL, extracts the article text and truncates it to
// MaxSourceChars characters.
func (f *ReadabilityFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("fetcher").WithField("url", rawURL)

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid source url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "flashstudy/1.0")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch source: %v", err)
		return "", fmt.Errorf("fetch source: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("source response received in %v, status=%d", time.Since(start), resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("source status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}

	text := Truncate(strings.TrimSpace(article.TextContent), MaxSourceChars)
	log.Info("extracted %d chars from %q", len([]rune(text)), article.Title)
	return text, nil
}

// Truncate cuts s to max characters and appends a marker when it had to.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + truncatedMarker
}
