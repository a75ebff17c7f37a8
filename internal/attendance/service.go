// Package attendance records identification events, at most once per
// student and session.
package attendance

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/GAURAV130105/attendance-system/internal/extractor"
	"github.com/GAURAV130105/attendance-system/internal/recognize"
)

// Service composes extraction, matching and recording into the capture
// operation exposed to the API layer.
type Service struct {
	extractor extractor.Extractor
	matcher   *recognize.Matcher
	recorder  *Recorder
}

// NewService creates the capture service.
func NewService(ext extractor.Extractor, matcher *recognize.Matcher, recorder *Recorder) *Service {
	return &Service{extractor: ext, matcher: matcher, recorder: recorder}
}

// Capture identifies the face in the image and records attendance for
// the session eligible at the given time.
//
// Extraction failures, unidentified faces, out-of-session captures and
// repeated captures are all Results, not errors; only dimension
// mismatches and storage failures propagate. Unidentified results
// never reveal which enrolled identity was nearly matched.
func (s *Service) Capture(ctx context.Context, imageData []byte, at time.Time) (Result, error) {
	query, err := s.extractor.Extract(ctx, imageData)
	if err != nil {
		var extErr *extractor.ExtractionError
		if errors.As(err, &extErr) {
			return Result{Outcome: OutcomeExtractionFailed, Reason: extErr.Reason}, nil
		}
		return Result{}, err
	}

	match, err := s.matcher.Search(query)
	if err != nil {
		return Result{}, err
	}

	if !match.Matched {
		// Diagnostic only. The nearest identity stays private and no
		// UNKNOWN row is persisted for failed identifications.
		log.Printf("capture: unidentified face at %s (best distance %.4f, threshold %.4f)",
			at.Format(time.RFC3339), match.BestDistance, s.matcher.Threshold())
		return Result{Outcome: OutcomeUnidentified}, nil
	}

	result, err := s.recorder.Record(ctx, match.StudentID, at)
	if err != nil {
		return Result{}, err
	}
	result.Distance = match.Distance
	return result, nil
}
