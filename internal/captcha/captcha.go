package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
)

const (
	ocrEndpoint = "https://api.ocr.space/parse/image"

	// Captcha codes are always six alphanumeric characters.
	answerLength = 6
)

// Solver reads captcha answers out of challenge images via the OCR.space API.
type Solver struct {
	http   *http.Client
	apiKey string
	log    zerolog.Logger
}

func NewSolver(apiKey string, log zerolog.Logger) *Solver {
	return &Solver{
		http:   &http.Client{Timeout: 20 * time.Second},
		apiKey: apiKey,
		log:    log.With().Str("component", "captcha").Logger(),
	}
}

// Solve submits the challenge image URL for OCR and returns the six
// character answer.
func (s *Solver) Solve(ctx context.Context, imageURL string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("no OCR API key configured")
	}

	s.log.Info().Str("url", imageURL).Msg("solving captcha")

	form := url.Values{
		"apikey":            {s.apiKey},
		"url":               {imageURL},
		"language":          {"eng"},
		"isOverlayRequired": {"false"},
		"detectOrientation": {"true"},
		"scale":             {"true"},
		"OCREngine":         {"2"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ocrEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr API: status %d", resp.StatusCode)
	}

	var body struct {
		OCRExitCode   int `json:"OCRExitCode"`
		ParsedResults []struct {
			ParsedText string `json:"ParsedText"`
		} `json:"ParsedResults"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}
	if body.OCRExitCode != 1 {
		return "", fmt.Errorf("ocr exit code %d", body.OCRExitCode)
	}
	if len(body.ParsedResults) == 0 {
		return "", fmt.Errorf("no parsed results")
	}

	answer := filterAlphanumeric(body.ParsedResults[0].ParsedText)
	if len(answer) != answerLength {
		return "", fmt.Errorf("unexpected answer length %d (%q)", len(answer), answer)
	}

	s.log.Info().Str("answer", answer).Msg("captcha solved")
	return answer, nil
}

func filterAlphanumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
