package domain

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/davidbz/skill4green/internal/observability"
)

// Verdict messages returned to the caller, keyed by approval.
const (
	MessageApproved = "After analysis, a change was detected and we consider the task completed."
	MessageRejected = "After analysis, we did not find enough change to confirm the task was completed."
)

// VerificationConfig contains the thresholds of the verification engine.
type VerificationConfig struct {
	SimilarityThreshold float64 `env:"SSIM_THRESHOLD" envDefault:"0.75"`
	DeltaMin            int     `env:"YOLO_DELTA_MIN" envDefault:"1"`
}

// VerificationService decides whether a before/after photo pair shows a performed task.
type VerificationService struct {
	similarity SimilarityOracle
	detector   Detector
	config     VerificationConfig
}

// NewVerificationService creates a new verification service (DI constructor).
// A nil detector disables the detection signal.
func NewVerificationService(
	similarity SimilarityOracle,
	detector Detector,
	cfg *VerificationConfig,
) *VerificationService {
	svc := &VerificationService{
		similarity: similarity,
		detector:   detector,
	}
	if cfg != nil {
		svc.config = *cfg
	}
	return svc
}

// Compare scores the pair with structural similarity only.
func (s *VerificationService) Compare(ctx context.Context, before, after []byte) (*Comparison, error) {
	sim, err := s.scoreSimilarity(ctx, before, after)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		SSIM:    sim.Score,
		Verdict: verdictFor(sim.Changed),
	}, nil
}

// Verify fuses similarity and detection into a verdict.
// Only an undecodable image fails the call; detector problems disable that signal.
func (s *VerificationService) Verify(ctx context.Context, before, after []byte) (*VerificationVerdict, error) {
	sim, err := s.scoreSimilarity(ctx, before, after)
	if err != nil {
		return nil, err
	}

	det := s.detectChanges(ctx, before, after)

	changed := sim.Changed || det.Changed
	message := MessageRejected
	if changed {
		message = MessageApproved
	}

	observability.FromContext(ctx).Info("verification completed",
		observability.Float64("ssim", sim.Score),
		observability.Bool("ssim_changed", sim.Changed),
		observability.Bool("detection_enabled", det.Enabled),
		observability.Bool("detection_changed", det.Changed),
		observability.Bool("approved", changed),
	)

	return &VerificationVerdict{
		Verdict:    verdictFor(changed),
		Approved:   changed,
		Message:    message,
		Similarity: sim,
		Detection:  det,
	}, nil
}

// ChangedClasses returns the classes, over the union of both histograms, whose
// absolute count delta is at least deltaMin. Absent classes count as zero.
func ChangedClasses(before, after ClassCountHistogram, deltaMin int) map[string]ClassDelta {
	changed := make(map[string]ClassDelta)

	seen := make(map[string]struct{}, len(before)+len(after))
	for class := range before {
		seen[class] = struct{}{}
	}
	for class := range after {
		seen[class] = struct{}{}
	}

	for class := range seen {
		b, a := before[class], after[class]
		if abs(a-b) >= deltaMin {
			changed[class] = ClassDelta{Before: b, After: a}
		}
	}

	return changed
}

func (s *VerificationService) scoreSimilarity(ctx context.Context, before, after []byte) (SimilarityResult, error) {
	score, err := s.similarity.Score(ctx, before, after)
	if err != nil {
		return SimilarityResult{}, fmt.Errorf("similarity failed: %w", err)
	}

	threshold := s.config.SimilarityThreshold
	return SimilarityResult{
		Score:     score,
		Threshold: threshold,
		Changed:   score < threshold,
	}, nil
}

func (s *VerificationService) detectChanges(ctx context.Context, before, after []byte) DetectionResult {
	result := DetectionResult{
		Enabled:        false,
		DeltaMin:       s.config.DeltaMin,
		Before:         ClassCountHistogram{},
		After:          ClassCountHistogram{},
		ChangedClasses: map[string]ClassDelta{},
		Changed:        false,
	}

	if s.detector == nil {
		return result
	}

	b, a, err := s.detectPair(ctx, before, after)
	if err != nil {
		observability.FromContext(ctx).Warn("detector failed, verifying without detection",
			observability.Error(err))
		return result
	}

	observability.FromContext(ctx).Debug("objects detected",
		observability.Int("before_total", b.Total),
		observability.Int("after_total", a.Total),
		observability.Float64s("before_scores", b.Scores),
		observability.Float64s("after_scores", a.Scores),
	)

	result.Enabled = true
	result.Before = nonNil(b.Counts)
	result.After = nonNil(a.Counts)
	result.ChangedClasses = ChangedClasses(result.Before, result.After, s.config.DeltaMin)
	result.Changed = len(result.ChangedClasses) > 0

	return result
}

func (s *VerificationService) detectPair(ctx context.Context, before, after []byte) (*Detection, *Detection, error) {
	var b, a *Detection

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		b, err = safeDetect(gctx, s.detector, before)
		return err
	})
	g.Go(func() error {
		var err error
		a, err = safeDetect(gctx, s.detector, after)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return b, a, nil
}

// safeDetect turns detector panics and empty results into errors.
func safeDetect(ctx context.Context, detector Detector, image []byte) (det *Detection, err error) {
	defer func() {
		if r := recover(); r != nil {
			det = nil
			err = fmt.Errorf("%w: detector panicked: %v", ErrDetectorUnavailable, r)
		}
	}()

	det, err = detector.Detect(ctx, image)
	if err != nil {
		return nil, err
	}
	if det == nil {
		return nil, fmt.Errorf("%w: no detection returned", ErrDetectorUnavailable)
	}
	return det, nil
}

func verdictFor(changed bool) Verdict {
	if changed {
		return VerdictChanged
	}
	return VerdictSmallChange
}

func nonNil(h ClassCountHistogram) ClassCountHistogram {
	if h == nil {
		return ClassCountHistogram{}
	}
	return h
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
