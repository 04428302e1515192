package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lironatar/TasksList/internal/models"
	"github.com/lironatar/TasksList/pkg/crypto"
	apperrors "github.com/lironatar/TasksList/pkg/errors"
	"github.com/lironatar/TasksList/pkg/logger"
	"github.com/lironatar/TasksList/pkg/mail"
	"github.com/lironatar/TasksList/pkg/metrics"
	"github.com/lironatar/TasksList/pkg/validator"
)

const (
	defaultCodeTTL    = 10 * time.Minute
	defaultCodeLength = 6

	verificationSubject = "רשימת משימות - קוד אימות"
)

// VerificationOption customises the VerificationService.
type VerificationOption func(*VerificationService)

// WithCodeTTL overrides how long an issued code stays active.
func WithCodeTTL(d time.Duration) VerificationOption {
	return func(s *VerificationService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithCodeLength adjusts the number of digits in generated codes.
func WithCodeLength(digits int) VerificationOption {
	return func(s *VerificationService) {
		if digits > 0 {
			s.codeLength = digits
		}
	}
}

// WithVerificationClock injects a custom time source.
func WithVerificationClock(clock func() time.Time) VerificationOption {
	return func(s *VerificationService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// VerificationService issues and redeems numeric email verification codes.
// At most one code per email is active at a time.
type VerificationService struct {
	db         *gorm.DB
	mailer     mail.Mailer
	ttl        time.Duration
	codeLength int
	now        func() time.Time
	log        *zap.Logger
}

// NewVerificationService constructs a verification service with the provided dependencies.
func NewVerificationService(db *gorm.DB, mailer mail.Mailer, opts ...VerificationOption) (*VerificationService, error) {
	if db == nil {
		return nil, errors.New("verification service: db is required")
	}

	service := &VerificationService{
		db:         db,
		mailer:     mailer,
		ttl:        defaultCodeTTL,
		codeLength: defaultCodeLength,
		now:        time.Now,
		log:        logger.WithModule("verification"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// CodeTTL reports the lifetime of issued codes.
func (s *VerificationService) CodeTTL() time.Duration {
	return s.ttl
}

// SendCode issues a fresh code for email and mails it. Any previous active code stops working.
// Delivery failures are logged; the caller may request another code.
func (s *VerificationService) SendCode(ctx context.Context, email string) error {
	ctx = ensureContext(ctx)
	email = normaliseEmail(email)
	if !validator.IsEmail(email) {
		return apperrors.NewValidation("a valid email is required")
	}

	code, err := crypto.GenerateNumericCode(s.codeLength)
	if err != nil {
		return fmt.Errorf("verification service: generate code: %w", err)
	}

	now := s.now()
	record := models.VerificationCode{
		BaseModel: models.BaseModel{CreatedAt: now, UpdatedAt: now},
		Email:     email,
		CodeHash:  crypto.HashToken(email, code),
		ExpiresAt: now.Add(s.ttl),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ? AND consumed_at IS NULL", email).
			Delete(&models.VerificationCode{}).Error; err != nil {
			return fmt.Errorf("invalidate previous codes: %w", err)
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return fmt.Errorf("verification service: issue code: %w", err)
	}
	metrics.VerificationCodes.WithLabelValues("issued").Inc()

	if s.mailer == nil {
		return nil
	}
	message := mail.Message{
		To:       []string{email},
		Subject:  verificationSubject,
		Body:     s.textBody(code),
		HTMLBody: s.htmlBody(code),
	}
	if mailErr := s.mailer.Send(ctx, message); mailErr != nil && !errors.Is(mailErr, mail.ErrSMTPDisabled) {
		metrics.VerificationCodes.WithLabelValues("mail_failed").Inc()
		s.log.Warn("verification email delivery failed", zap.String("email", email), zap.Error(mailErr))
	}
	return nil
}

// VerifyCode redeems code for email and marks the matching user verified.
// Any failure to match an active code is reported as ErrInvalidCode.
func (s *VerificationService) VerifyCode(ctx context.Context, email, code string) error {
	ctx = ensureContext(ctx)
	email = normaliseEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return apperrors.NewValidation("email and code are required")
	}

	now := s.now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.VerificationCode
		err := tx.Where("email = ? AND consumed_at IS NULL", email).
			Order("created_at DESC").
			Take(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidCode
		}
		if err != nil {
			return fmt.Errorf("find code: %w", err)
		}

		if !record.Active(now) {
			return apperrors.ErrInvalidCode.WithMessage("Verification code has expired")
		}
		expected := crypto.HashToken(email, code)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(record.CodeHash)) != 1 {
			return apperrors.ErrInvalidCode.WithMessage("Invalid verification code")
		}

		consumed := tx.Model(&models.VerificationCode{}).
			Where("id = ? AND consumed_at IS NULL", record.ID).
			Update("consumed_at", now)
		if consumed.Error != nil {
			return fmt.Errorf("consume code: %w", consumed.Error)
		}
		// A concurrent redemption already took it.
		if consumed.RowsAffected == 0 {
			return apperrors.ErrInvalidCode
		}

		verified := tx.Model(&models.User{}).
			Where("email = ?", email).
			Updates(map[string]any{"is_verified": true, "verified_at": now})
		if verified.Error != nil {
			return fmt.Errorf("mark user verified: %w", verified.Error)
		}
		// Codes can be sent to addresses without an account.
		if verified.RowsAffected == 0 {
			return apperrors.ErrInvalidCode.WithMessage("No account is registered for this email")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCode) {
			metrics.VerificationCodes.WithLabelValues("rejected").Inc()
			return err
		}
		return fmt.Errorf("verification service: verify code: %w", err)
	}

	metrics.VerificationCodes.WithLabelValues("verified").Inc()
	return nil
}

func (s *VerificationService) textBody(code string) string {
	minutes := int(s.ttl.Round(time.Minute) / time.Minute)
	return fmt.Sprintf(`רשימת משימות - קוד אימות

שלום,

קוד האימות שלך לרשימת המשימות הוא: %s

הקוד תקף ל-%d דקות בלבד.

אם לא ביקשת קוד אימות, אנא התעלם מהודעה זו.

---
Your TasksList verification code is: %s
It expires in %d minutes. If you did not request it, ignore this email.
`, code, minutes, code, minutes)
}

func (s *VerificationService) htmlBody(code string) string {
	minutes := int(s.ttl.Round(time.Minute) / time.Minute)
	return fmt.Sprintf(`<html dir="rtl">
<body style="font-family: Arial, sans-serif; text-align: right;">
  <h2>אימות אימייל</h2>
  <p>שלום,</p>
  <p>קוד האימות שלך לרשימת המשימות הוא:</p>
  <p style="font-size: 24px; font-weight: bold; text-align: center;">%s</p>
  <p>הקוד תקף ל-%d דקות בלבד.</p>
  <p>אם לא ביקשת קוד אימות, אנא התעלם מהודעה זו.</p>
  <p style="font-size: 12px; color: #777;">הודעה זו נשלחה באופן אוטומטי. אנא אל תשיב לה.</p>
</body>
</html>
`, code, minutes)
}
