package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/shutterbox/shutterbox/internal/utils"
	"github.com/shutterbox/shutterbox/internal/version"
)

const fetchTimeout = 60 * time.Second

// WebStreamFetcher talks to the shared-streams API of the photo service.
type WebStreamFetcher struct {
	client *req.Client
}

func NewWebStreamFetcher() *WebStreamFetcher {
	client := req.C().
		SetUserAgent("shutterbox/" + version.Version).
		SetTimeout(fetchTimeout).
		SetCommonRetryCount(2).
		SetCommonRetryBackoffInterval(500*time.Millisecond, 5*time.Second)

	return &WebStreamFetcher{client: client}
}

type webStreamResponse struct {
	StreamName string           `json:"streamName"`
	Photos     []webStreamPhoto `json:"photos"`
	// Non-empty when the partition guess was wrong and the API wants us
	// to retry against another host.
	RedirectHost string `json:"X-Apple-MMe-Host"`
}

type webStreamPhoto struct {
	PhotoGUID   string                   `json:"photoGuid"`
	Caption     string                   `json:"caption"`
	DateCreated string                   `json:"dateCreated"`
	Derivatives map[string]webDerivative `json:"derivatives"`
}

type webDerivative struct {
	Checksum string `json:"checksum"`
	Width    any    `json:"width"`
	Height   any    `json:"height"`
}

type webAssetURLsResponse struct {
	Items map[string]webAssetLocation `json:"items"`
}

type webAssetLocation struct {
	URLLocation string `json:"url_location"`
	URLPath     string `json:"url_path"`
}

// FetchCatalog loads the album stream, selects the best rendition per
// photo, and resolves the asset URLs for the selected checksums.
func (f *WebStreamFetcher) FetchCatalog(ctx context.Context, albumURL string) (*Catalog, error) {
	token, err := extractToken(albumURL)
	if err != nil {
		return nil, &FetchError{Op: "catalog", URL: albumURL, Err: err}
	}

	host := partitionHost(token)
	stream, err := f.fetchStream(ctx, host, token)
	if err != nil {
		return nil, &FetchError{Op: "catalog", URL: albumURL, Err: err}
	}
	if stream.RedirectHost != "" {
		slog.Debug("shared stream redirected", "host", stream.RedirectHost)
		host = stream.RedirectHost
		stream, err = f.fetchStream(ctx, host, token)
		if err != nil {
			return nil, &FetchError{Op: "catalog", URL: albumURL, Err: err}
		}
	}

	name := strings.TrimSpace(stream.StreamName)
	if name == "" {
		name = "Shared Album " + truncate(token, 8)
	}
	cat := NewCatalog(name)

	type selected struct {
		photo      webStreamPhoto
		checksum   string
		width      int
		height     int
		derivative string
	}
	chosen := make([]selected, 0, len(stream.Photos))
	guids := make([]string, 0, len(stream.Photos))

	for _, photo := range stream.Photos {
		key, deriv, ok := bestDerivative(photo.Derivatives)
		if !ok {
			slog.Warn("skipping photo without renditions", "id", photo.PhotoGUID)
			continue
		}
		chosen = append(chosen, selected{
			photo:      photo,
			checksum:   deriv.Checksum,
			width:      anyToInt(deriv.Width),
			height:     anyToInt(deriv.Height),
			derivative: key,
		})
		guids = append(guids, photo.PhotoGUID)
	}

	// The asset endpoint takes photo guids; the response is keyed by the
	// derivative checksum.
	urls, err := f.fetchAssetURLs(ctx, host, token, guids)
	if err != nil {
		return nil, &FetchError{Op: "asset urls", URL: albumURL, Err: err}
	}

	for _, sel := range chosen {
		loc, ok := urls[sel.checksum]
		if !ok {
			slog.Warn("no asset URL for photo", "id", sel.photo.PhotoGUID)
			continue
		}
		downloadURL := fmt.Sprintf("https://%s%s", loc.URLLocation, loc.URLPath)
		contentType := contentTypeFor(downloadURL, sel.derivative)

		createdAt := time.Now().UTC()
		if sel.photo.DateCreated != "" {
			if ts, perr := time.Parse(time.RFC3339, sel.photo.DateCreated); perr == nil {
				createdAt = ts.UTC()
			} else {
				slog.Warn("unparseable photo date", "id", sel.photo.PhotoGUID, "date", sel.photo.DateCreated)
			}
		}

		cat.Add(&Item{
			ID:               sel.photo.PhotoGUID,
			Checksum:         sel.checksum,
			Caption:          sel.photo.Caption,
			CreatedAt:        createdAt,
			DownloadURL:      downloadURL,
			OriginalFilename: sel.photo.PhotoGUID + "." + utils.ExtensionForType(contentType),
			ContentType:      contentType,
			Width:            sel.width,
			Height:           sel.height,
		})
	}

	slog.Debug("fetched catalog", "album", cat.Name, "photos", cat.Len())
	return cat, nil
}

// ResolveBytes downloads a single photo's content.
func (f *WebStreamFetcher) ResolveBytes(ctx context.Context, downloadURL string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(downloadURL)
	if err != nil {
		return nil, &FetchError{Op: "bytes", URL: downloadURL, Err: err}
	}
	if resp.IsErrorState() {
		return nil, &FetchError{Op: "bytes", URL: downloadURL, Err: fmt.Errorf("http %d", resp.GetStatusCode())}
	}
	return resp.Bytes(), nil
}

func (f *WebStreamFetcher) fetchStream(ctx context.Context, host, token string) (*webStreamResponse, error) {
	var out webStreamResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetBodyJsonMarshal(map[string]any{"streamCtag": nil}).
		SetSuccessResult(&out).
		SetErrorResult(&out).
		Post(fmt.Sprintf("https://%s/%s/sharedstreams/webstream", host, token))
	if err != nil {
		return nil, err
	}
	// 330 carries the redirect host in the body
	if resp.IsErrorState() && out.RedirectHost == "" {
		return nil, fmt.Errorf("webstream http %d", resp.GetStatusCode())
	}
	return &out, nil
}

func (f *WebStreamFetcher) fetchAssetURLs(ctx context.Context, host, token string, guids []string) (map[string]webAssetLocation, error) {
	if len(guids) == 0 {
		return map[string]webAssetLocation{}, nil
	}

	var out webAssetURLsResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetBodyJsonMarshal(map[string]any{"photoGuids": guids}).
		SetSuccessResult(&out).
		Post(fmt.Sprintf("https://%s/%s/sharedstreams/webasseturls", host, token))
	if err != nil {
		return nil, err
	}
	if resp.IsErrorState() {
		return nil, fmt.Errorf("webasseturls http %d", resp.GetStatusCode())
	}
	return out.Items, nil
}

// bestDerivative prefers the "original" rendition, then the largest by
// pixel count. Derivative keys are iterated in sorted order so the
// choice is stable across runs.
func bestDerivative(derivatives map[string]webDerivative) (string, webDerivative, bool) {
	keys := make([]string, 0, len(derivatives))
	for k := range derivatives {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		d := derivatives[key]
		if strings.Contains(strings.ToLower(key), "original") && d.Checksum != "" {
			return key, d, true
		}
	}

	bestKey := ""
	var best webDerivative
	bestRes := int64(-1)
	for _, key := range keys {
		d := derivatives[key]
		if d.Checksum == "" {
			continue
		}
		res := int64(anyToInt(d.Width)) * int64(anyToInt(d.Height))
		if res > bestRes {
			bestKey, best, bestRes = key, d, res
		}
	}
	if bestRes < 0 {
		return "", webDerivative{}, false
	}
	return bestKey, best, true
}

// The API reports dimensions as either numbers or numeric strings.
func anyToInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, _ := strconv.Atoi(n)
		return i
	default:
		return 0
	}
}

func contentTypeFor(url, derivativeKey string) string {
	lower := strings.ToLower(url)
	key := strings.ToLower(derivativeKey)
	switch {
	case strings.Contains(lower, ".png") || strings.Contains(key, "png"):
		return "image/png"
	case strings.Contains(lower, ".heic") || strings.Contains(key, "heic"):
		return "image/heic"
	case strings.Contains(lower, ".gif") || strings.Contains(key, "gif"):
		return "image/gif"
	case strings.Contains(lower, ".webp") || strings.Contains(key, "webp"):
		return "image/webp"
	case strings.Contains(lower, ".mov") || strings.Contains(lower, ".mp4") || strings.Contains(key, "mp4"):
		return "video/mp4"
	default:
		return "image/jpeg"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
