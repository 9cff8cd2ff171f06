package service

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

var ErrNoTranscript = errors.New("no transcript available for video")

const importUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Importer fetches external content for the content library: blog
// articles via readability extraction and YouTube transcripts via the
// public timedtext endpoint.
type Importer struct {
	http *http.Client
}

func NewImporter() *Importer {
	return &Importer{http: &http.Client{Timeout: 15 * time.Second}}
}

type Article struct {
	Title string
	Text  string
}

// ScrapeArticle downloads a blog post and strips it to readable text.
func (i *Importer) ScrapeArticle(ctx context.Context, url string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", importUserAgent)

	resp, err := i.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch article: status %d", resp.StatusCode)
	}

	parsed, err := readability.FromReader(resp.Body, resp.Request.URL)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}

	text := strings.TrimSpace(parsed.TextContent)
	if text == "" {
		return nil, errors.New("article has no readable text")
	}
	return &Article{Title: parsed.Title, Text: text}, nil
}

var youtubeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
}

// ExtractYouTubeVideoID accepts watch, short, and embed URL forms as
// well as a bare 11-character video id.
func ExtractYouTubeVideoID(url string) (string, bool) {
	for _, re := range youtubeIDPatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}

type Transcript struct {
	Text            string
	DurationMinutes int
}

var reCaptionTracks = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

type timedTextDoc struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",chardata"`
	} `xml:"text"`
}

// FetchYouTubeTranscript pulls the caption track list from the watch
// page and downloads the first track (preferring English). Videos
// without captions return ErrNoTranscript.
func (i *Importer) FetchYouTubeTranscript(ctx context.Context, videoID string) (*Transcript, error) {
	page, err := i.get(ctx, "https://www.youtube.com/watch?v="+videoID)
	if err != nil {
		return nil, err
	}

	m := reCaptionTracks.FindSubmatch(page)
	if m == nil {
		return nil, ErrNoTranscript
	}
	var tracks []captionTrack
	if err := json.Unmarshal(m[1], &tracks); err != nil || len(tracks) == 0 {
		return nil, ErrNoTranscript
	}

	track := tracks[0]
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			track = t
			break
		}
	}

	body, err := i.get(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}

	var doc timedTextDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}
	if len(doc.Texts) == 0 {
		return nil, ErrNoTranscript
	}

	parts := make([]string, 0, len(doc.Texts))
	var endSeconds float64
	for _, t := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Body))
		if text != "" {
			parts = append(parts, text)
		}
		start, _ := strconv.ParseFloat(t.Start, 64)
		dur, _ := strconv.ParseFloat(t.Dur, 64)
		if end := start + dur; end > endSeconds {
			endSeconds = end
		}
	}

	joined := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if joined == "" {
		return nil, ErrNoTranscript
	}
	return &Transcript{
		Text:            joined,
		DurationMinutes: int(endSeconds+59) / 60,
	}, nil
}

func (i *Importer) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", importUserAgent)

	resp, err := i.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 10<<20))
}
