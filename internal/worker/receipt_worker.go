package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the loyalty receipt PDF
// and hands it off to the email queue.

import (
	"context"
	"encoding/json"
	"fmt"

	"loyaltypos/internal/infra"

	"github.com/rs/zerolog/log"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt. All money and
// point quantities travel as fixed-point strings — the receipt only prints
// them, it never computes.
type ReceiptJobPayload struct {
	PaymentID        string `json:"payment_id"`
	Phone            string `json:"phone"`
	ToEmail          string `json:"to_email"`
	OriginalAmount   string `json:"original_amount"`
	BirthdayDiscount string `json:"birthday_discount"`
	RewardDiscount   string `json:"reward_discount"`
	PointsRedeemed   string `json:"points_redeemed"`
	FinalAmount      string `json:"final_amount"`
	PointsEarned     string `json:"points_earned"`
	TotalPoints      string `json:"total_points"`
	Method           string `json:"method"`
	Timestamp        string `json:"timestamp"`
}

// ReceiptWorker renders receipt PDFs and enqueues their email delivery.
type ReceiptWorker struct {
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewReceiptWorker(dispatcher *Dispatcher, pdfStoragePath string) *ReceiptWorker {
	return &ReceiptWorker{dispatcher: dispatcher, pdfStoragePath: pdfStoragePath}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Render the PDF receipt with the loyalty breakdown
//  3. Enqueue the email job carrying the PDF path
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Str("payment_id", payload.PaymentID).Msg("receipt_worker: no recipient — skipping")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(infra.Receipt{
		PaymentID:        payload.PaymentID,
		Phone:            payload.Phone,
		OriginalAmount:   payload.OriginalAmount,
		BirthdayDiscount: payload.BirthdayDiscount,
		RewardDiscount:   payload.RewardDiscount,
		PointsRedeemed:   payload.PointsRedeemed,
		FinalAmount:      payload.FinalAmount,
		PointsEarned:     payload.PointsEarned,
		TotalPoints:      payload.TotalPoints,
		Method:           payload.Method,
		Timestamp:        payload.Timestamp,
	}, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("payment_id", payload.PaymentID).Msg("receipt_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("payment_id", payload.PaymentID).Msg("receipt_worker: PDF generated")

	emailJob := EmailJobPayload{
		ToEmail: payload.ToEmail,
		Subject: "Your purchase receipt",
		Body: fmt.Sprintf(
			"Thanks for your purchase!\nPaid: $%s\nPoints earned: %s\nPoints balance: %s",
			payload.FinalAmount, payload.PointsEarned, payload.TotalPoints,
		),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", payload.ToEmail).Msg("receipt_worker: failed to enqueue email")
		return
	}
	log.Info().Str("email", payload.ToEmail).Msg("receipt_worker: email job enqueued")
}
