package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ekverified/app-backend/models"
	"github.com/ekverified/app-backend/store"
)

// RecordService covers the append-only and append-mostly collections that
// carry no workflow of their own: news, welfare claims, transactions,
// approved reports, audit logs and signatures.
type RecordService struct {
	Store store.Store
}

func NewRecordService(s store.Store) *RecordService {
	return &RecordService{Store: s}
}

func (s *RecordService) ListNews(ctx context.Context) ([]models.News, error) {
	news, _, err := store.Load[models.News](ctx, s.Store, CollNews)
	return news, err
}

func (s *RecordService) AddNews(ctx context.Context, text, signedBy string) (models.News, error) {
	if text == "" {
		return models.News{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	entry := models.News{
		ID:        uuid.NewString(),
		Text:      text,
		SignedBy:  signedBy,
		CreatedAt: time.Now().Format("2006-01-02 15:04:05"),
	}
	err := store.Update(ctx, s.Store, CollNews, func(news []models.News) ([]models.News, error) {
		return append([]models.News{entry}, news...), nil
	})
	return entry, err
}

func (s *RecordService) ListWelfare(ctx context.Context, member string) ([]models.WelfareClaim, error) {
	claims, _, err := store.Load[models.WelfareClaim](ctx, s.Store, CollWelfare)
	if err != nil {
		return nil, err
	}
	out := make([]models.WelfareClaim, 0, len(claims))
	for _, c := range claims {
		if member != "" && c.Member != member {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *RecordService) SubmitWelfare(ctx context.Context, claimType string, amount float64, member string) (models.WelfareClaim, error) {
	if claimType == "" || member == "" || amount <= 0 {
		return models.WelfareClaim{}, fmt.Errorf("%w: type, member and a positive amount are required", ErrInvalidInput)
	}
	claim := models.WelfareClaim{
		ID:     uuid.NewString(),
		Type:   claimType,
		Amount: amount,
		Member: member,
		Status: "Sec",
		Date:   time.Now().Format("2006-01-02"),
	}
	err := store.Update(ctx, s.Store, CollWelfare, func(claims []models.WelfareClaim) ([]models.WelfareClaim, error) {
		return append(claims, claim), nil
	})
	return claim, err
}

func (s *RecordService) ListTransactions(ctx context.Context, member string) ([]models.Transaction, error) {
	txns, _, err := store.Load[models.Transaction](ctx, s.Store, CollTransactions)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if member != "" && t.Member != member {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *RecordService) AddTransaction(ctx context.Context, txn models.Transaction) (models.Transaction, error) {
	if txn.Member == "" || txn.Title == "" {
		return models.Transaction{}, fmt.Errorf("%w: title and member are required", ErrInvalidInput)
	}
	txn.ID = uuid.NewString()
	if txn.Date == "" {
		txn.Date = time.Now().Format("2006-01-02")
	}
	err := store.Update(ctx, s.Store, CollTransactions, func(txns []models.Transaction) ([]models.Transaction, error) {
		return append(txns, txn), nil
	})
	return txn, err
}

func (s *RecordService) ListReports(ctx context.Context) ([]models.ApprovedReport, error) {
	reports, _, err := store.Load[models.ApprovedReport](ctx, s.Store, CollApprovedReports)
	return reports, err
}

func (s *RecordService) AddReport(ctx context.Context, text, file, signedBy string) (models.ApprovedReport, error) {
	if text == "" {
		return models.ApprovedReport{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	report := models.ApprovedReport{
		ID:       uuid.NewString(),
		Text:     text,
		File:     file,
		SignedBy: signedBy,
	}
	err := store.Update(ctx, s.Store, CollApprovedReports, func(reports []models.ApprovedReport) ([]models.ApprovedReport, error) {
		return append(reports, report), nil
	})
	return report, err
}

func (s *RecordService) ListLogs(ctx context.Context) ([]models.LogEntry, error) {
	logs, _, err := store.Load[models.LogEntry](ctx, s.Store, CollLogs)
	return logs, err
}

func (s *RecordService) AddLog(ctx context.Context, action, by, details string) (models.LogEntry, error) {
	if action == "" || by == "" {
		return models.LogEntry{}, fmt.Errorf("%w: action and by are required", ErrInvalidInput)
	}
	entry := models.LogEntry{
		ID:        uuid.NewString(),
		Action:    action,
		By:        by,
		Details:   details,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	}
	err := store.Update(ctx, s.Store, CollLogs, func(logs []models.LogEntry) ([]models.LogEntry, error) {
		return append(logs, entry), nil
	})
	return entry, err
}

// Signatures reads the role->signature map.
func (s *RecordService) Signatures(ctx context.Context) (map[string]string, error) {
	sigs, _, err := store.Load[models.Signature](ctx, s.Store, CollSignatures)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(sigs))
	for _, sig := range sigs {
		out[sig.Role] = sig.Signature
	}
	return out, nil
}

// UpsertSignature keeps at most one signature blob per role.
func (s *RecordService) UpsertSignature(ctx context.Context, role, signature string) error {
	if !models.IsValidRole(role) {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	if signature == "" {
		return fmt.Errorf("%w: signature is required", ErrInvalidInput)
	}
	return store.Update(ctx, s.Store, CollSignatures, func(sigs []models.Signature) ([]models.Signature, error) {
		for i := range sigs {
			if sigs[i].Role == role {
				sigs[i].Signature = signature
				return sigs, nil
			}
		}
		return append(sigs, models.Signature{Role: role, Signature: signature}), nil
	})
}
