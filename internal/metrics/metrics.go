package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Recorder collects study and bot counters.
type Recorder struct {
	choiceSets  *prometheus.CounterVec
	fallbacks   prometheus.Counter
	sessions    *prometheus.CounterVec
	answers     *prometheus.CounterVec
	searches    prometheus.Counter
	updates     *prometheus.CounterVec
	rateLimited prometheus.Counter
}

// NewRecorder creates the counters and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		choiceSets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "study_choice_sets_total",
				Help: "Answer option sets generated, by whether all requested options were filled",
			},
			[]string{"outcome"},
		),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "study_choice_fallback_total",
			Help: "Option sets that needed the relaxed fallback pass",
		}),
		sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "study_sessions_started_total",
				Help: "Study sessions started by mode",
			},
			[]string{"mode"},
		),
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "study_answers_total",
				Help: "Practice answers by result",
			},
			[]string{"result"},
		),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "study_searches_total",
			Help: "Learn mode searches",
		}),
		updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bot_updates_total",
				Help: "Telegram updates handled by kind",
			},
			[]string{"kind"},
		),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bot_rate_limited_total",
			Help: "Updates dropped by the per-chat rate limiter",
		}),
	}

	reg.MustRegister(
		r.choiceSets,
		r.fallbacks,
		r.sessions,
		r.answers,
		r.searches,
		r.updates,
		r.rateLimited,
	)

	return r
}

func (r *Recorder) ObserveChoices(requested, returned int, usedFallback bool) {
	outcome := "full"
	if returned < requested {
		outcome = "short"
	}
	r.choiceSets.WithLabelValues(outcome).Inc()
	if usedFallback {
		r.fallbacks.Inc()
	}
}

func (r *Recorder) SessionStarted(mode string) {
	r.sessions.WithLabelValues(mode).Inc()
}

func (r *Recorder) AnswerRecorded(correct bool) {
	result := "wrong"
	if correct {
		result = "correct"
	}
	r.answers.WithLabelValues(result).Inc()
}

func (r *Recorder) SearchPerformed() { r.searches.Inc() }

func (r *Recorder) UpdateReceived(kind string) {
	r.updates.WithLabelValues(kind).Inc()
}

func (r *Recorder) RateLimited() { r.rateLimited.Inc() }

// Serve exposes gatherer on addr/metrics until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server started", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
