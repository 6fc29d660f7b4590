package api

import (
	"net/http"

	"fraudeda/internal"
	"fraudeda/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	LabelFraud    = "Fraud"
	LabelNonFraud = "Non_Fraud"

	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
)

// PredictRequest is the body of POST /predict
type PredictRequest struct {
	Features []float64 `json:"features"`
}

// PredictResponse is the success body of POST /predict
type PredictResponse struct {
	FraudPrediction string `json:"fraud_prediction"`
}

// PredictionHandler handles health and prediction requests
type PredictionHandler struct {
	predictor ports.Predictor
	logger    *internal.Logger
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictor ports.Predictor, logger *internal.Logger) *PredictionHandler {
	return &PredictionHandler{predictor: predictor, logger: logger}
}

// Health reports that the API is up
func (h *PredictionHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "API is running"})
}

// Predict labels a feature vector Fraud or Non_Fraud. Every failure is a 400
// carrying the error message.
func (h *PredictionHandler) Predict(c *gin.Context) {
	reqID := c.GetString(requestIDKey)

	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, reqID, "invalid request body: "+err.Error())
		return
	}
	if req.Features == nil {
		h.fail(c, reqID, "missing 'features'")
		return
	}

	class, err := h.predictor.Predict(req.Features)
	if err != nil {
		h.fail(c, reqID, err.Error())
		return
	}

	label := Label(class)
	h.logger.Info("[%s] Prediction request: %v -> %s", reqID, req.Features, label)
	c.JSON(http.StatusOK, PredictResponse{FraudPrediction: label})
}

func (h *PredictionHandler) fail(c *gin.Context, reqID, msg string) {
	h.logger.Error("[%s] Error processing request: %s", reqID, msg)
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// Label maps class 0 to Non_Fraud and anything else to Fraud
func Label(class int) string {
	if class == 0 {
		return LabelNonFraud
	}
	return LabelFraud
}

// requestID tags each request with a uuid, reusing a valid incoming X-Request-ID
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
