package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	documentsUploaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docreview_documents_uploaded_total",
		Help: "Total documents uploaded, by document type",
	}, []string{"document_type"})

	documentsReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docreview_documents_reviewed_total",
		Help: "Total review actions applied, by resulting status",
	}, []string{"status"})

	applicantsValidated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docreview_applicants_validated_total",
		Help: "Total validate-by-name calls that matched an applicant",
	})

	verificationResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docreview_verification_results_total",
		Help: "Verification outcomes: match, mismatch, not_found, failed",
	}, []string{"outcome"})

	verificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "docreview_verification_duration_seconds",
		Help:    "Time spent verifying one document (storage read, OCR, compare)",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})

	verifyJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docreview_verify_jobs_total",
		Help: "Verification queue jobs by worker outcome",
	}, []string{"outcome"})
)

// IncDocumentUploaded counts a stored document.
func IncDocumentUploaded(documentType string) {
	documentsUploaded.WithLabelValues(documentType).Inc()
}

// IncDocumentReviewed counts an approve/reject action.
func IncDocumentReviewed(status string) {
	documentsReviewed.WithLabelValues(status).Inc()
}

// IncApplicantValidated counts a successful validate-by-name.
func IncApplicantValidated() {
	applicantsValidated.Inc()
}

// ObserveVerification records one verification outcome and its duration.
func ObserveVerification(outcome string, took time.Duration) {
	verificationResults.WithLabelValues(outcome).Inc()
	if took < 0 {
		took = 0
	}
	verificationDuration.Observe(took.Seconds())
}

// IncVerifyJobsReceived counts messages pulled from the queue.
func IncVerifyJobsReceived() { verifyJobs.WithLabelValues("received").Inc() }

// IncVerifyJobsCompleted counts messages processed and deleted.
func IncVerifyJobsCompleted() { verifyJobs.WithLabelValues("completed").Inc() }

// IncVerifyJobsFailed counts messages left on the queue for redelivery.
func IncVerifyJobsFailed() { verifyJobs.WithLabelValues("failed").Inc() }

// IncVerifyJobsDeletedUnrecoverable counts malformed messages dropped from the queue.
func IncVerifyJobsDeletedUnrecoverable() { verifyJobs.WithLabelValues("unrecoverable").Inc() }

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
