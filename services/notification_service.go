package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/models"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/repository"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/retry"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/sender"
)

const (
	fromNameCustomer = "Buckeye Bin Cleaning"
	fromNameSystem   = "Buckeye Bin Cleaning System"
)

// NotificationService composes and dispatches the customer and owner emails.
// Sends are retried and always best-effort: a failure is logged for manual
// resend and reported to the caller, but callers must not fail their HTTP
// response over it.
type NotificationService struct {
	Sender      sender.EmailSender
	Audit       repository.AuditRepository
	Logger      *zap.Logger
	Retry       retry.Config
	ContactAddr string // reply-to address shown in email bodies
	OwnerEmail  string
}

func NewNotificationService(s sender.EmailSender, audit repository.AuditRepository, logger *zap.Logger, contactAddr, ownerEmail string) *NotificationService {
	return &NotificationService{
		Sender:      s,
		Audit:       audit,
		Logger:      logger,
		Retry:       retry.DefaultConfig(),
		ContactAddr: contactAddr,
		OwnerEmail:  ownerEmail,
	}
}

type email struct {
	fromName string
	to       string
	subject  string
	body     string
}

// dispatchAll fires every email concurrently and waits for all of them;
// one failing send never cancels the others. Each failure is written to
// failed_emails plus an action-required notification, keyed to the event and
// session for manual resend.
func (n *NotificationService) dispatchAll(ctx context.Context, eventID, sessionID string, payload interface{}, emails []email) error {
	errs := make([]error, len(emails))
	var wg sync.WaitGroup

	for i, e := range emails {
		wg.Add(1)
		go func(i int, e email) {
			defer wg.Done()
			errs[i] = retry.Do(ctx, n.Logger, "send email to "+e.to, n.Retry, func() error {
				_, err := n.Sender.SendEmail(ctx, e.fromName, e.to, e.subject, e.body)
				return err
			})
		}(i, e)
	}
	wg.Wait()

	raw, _ := json.Marshal(payload)
	var failed bool
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed = true

		n.Logger.Error("email send failed after retries",
			zap.String("recipient", emails[i].to),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)

		if logErr := n.Audit.LogFailedEmail(ctx, &models.FailedEmail{
			EventID:   eventID,
			SessionID: sessionID,
			Recipient: emails[i].to,
			Error:     err.Error(),
			Payload:   string(raw),
		}); logErr != nil {
			n.Logger.Error("failed to record failed email", zap.Error(logErr))
		}

		if notifErr := n.Audit.CreateNotification(ctx, &models.Notification{
			SessionID:      sessionID,
			Type:           "email_resend_required",
			Message:        fmt.Sprintf("email to %s failed: %v", emails[i].to, err),
			ActionRequired: true,
		}); notifErr != nil {
			n.Logger.Error("failed to record notification", zap.Error(notifErr))
		}
	}

	if failed {
		return errors.Join(errs...)
	}
	return nil
}

// SendOrderConfirmations emails the customer confirmation and the owner
// notification for a new order.
func (n *NotificationService) SendOrderConfirmations(ctx context.Context, eventID string, order *models.Order) error {
	emails := []email{
		{
			fromName: fromNameCustomer,
			to:       order.CustomerEmail,
			subject:  "Your Buckeye Bin Cleaning Order Confirmation",
			body:     n.customerConfirmationBody(order),
		},
		{
			fromName: fromNameSystem,
			to:       n.OwnerEmail,
			subject:  "New Bin Cleaning Order",
			body:     n.ownerNotificationBody(order),
		},
	}
	return n.dispatchAll(ctx, eventID, order.StripeSessionID, order, emails)
}

// SendCancellationNotices emails both parties after a refund has been issued.
func (n *NotificationService) SendCancellationNotices(ctx context.Context, order *models.Order, refundID string) error {
	emails := []email{
		{
			fromName: fromNameCustomer,
			to:       order.CustomerEmail,
			subject:  "Your Order Cancellation and Refund",
			body:     n.customerCancellationBody(order, refundID),
		},
		{
			fromName: fromNameSystem,
			to:       n.OwnerEmail,
			subject:  "Order Cancelled and Refunded",
			body:     n.ownerCancellationBody(order, refundID),
		},
	}
	return n.dispatchAll(ctx, "", order.StripeSessionID, order, emails)
}

func (n *NotificationService) customerConfirmationBody(order *models.Order) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h2 style="color: #ed1c24;">Thank You for Your Order!</h2>
      <p>Hello %s,</p>
      <p>Your bin cleaning service has been scheduled successfully. Here are your order details:</p>

      <div style="background-color: #f7f7f7; padding: 15px; border-radius: 5px; margin: 20px 0;">
        <p><strong>Order ID:</strong> %s</p>
        <p><strong>Service Plan:</strong> %s</p>
        <p><strong>Service Address:</strong> %s</p>
        <p><strong>Pickup Schedule:</strong> %s, %s</p>
        <p><strong>Total Paid:</strong> $%.2f</p>
      </div>

      <p>Our team will service your bins on your next trash pickup day.</p>
      <p>If you need to make any changes or have questions, please contact us at %s or call (216) 230-6165.</p>

      <p>Thank you for choosing Buckeye Bin Cleaning!</p>
    </div>`,
		order.CustomerName, shortID(order.StripeSessionID), order.ServicePlanDisplay,
		order.Address, order.DayOfPickupDisplay, order.TimeOfPickupDisplay,
		order.Amount, n.ContactAddr)
}

func (n *NotificationService) ownerNotificationBody(order *models.Order) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif;">
      <h2 style="color: #ed1c24;">New Order Received!</h2>
      <p>A new bin cleaning order has been placed:</p>

      <div style="background-color: #f7f7f7; padding: 15px; border-radius: 5px; margin: 20px 0;">
        <p><strong>Order ID:</strong> %s</p>
        <p><strong>Customer:</strong> %s</p>
        <p><strong>Email:</strong> %s</p>
        <p><strong>Phone:</strong> %s</p>
        <p><strong>Service Plan:</strong> %s</p>
        <p><strong>Service Address:</strong> %s</p>
        <p><strong>Pickup Schedule:</strong> %s, %s</p>
        <p><strong>Special Instructions:</strong> %s</p>
        <p><strong>Total Paid:</strong> $%.2f</p>
      </div>

      <p>This order has been added to the schedule.</p>
    </div>`,
		shortID(order.StripeSessionID), order.CustomerName, order.CustomerEmail,
		order.CustomerPhone, order.ServicePlanDisplay, order.Address,
		order.DayOfPickupDisplay, order.TimeOfPickupDisplay, order.Message, order.Amount)
}

func (n *NotificationService) customerCancellationBody(order *models.Order, refundID string) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <h2 style="color: #ed1c24;">Order Cancelled</h2>
      <p>Hello %s,</p>
      <p>Your bin cleaning service has been cancelled as requested.</p>

      <div style="background-color: #f7f7f7; padding: 15px; border-radius: 5px; margin: 20px 0;">
        <p><strong>Order ID:</strong> %s</p>
        <p><strong>Refund Amount:</strong> $%.2f</p>
        <p><strong>Refund ID:</strong> %s</p>
      </div>

      <p>Your refund has been processed and should appear in your account within 5-10 business days, depending on your bank or card issuer.</p>

      <p>If you have any questions about this refund, please contact us at %s or call (216) 230-6165.</p>

      <p>Thank you for considering Buckeye Bin Cleaning. We hope to serve you in the future!</p>
    </div>`,
		order.CustomerName, shortID(order.StripeSessionID), order.Amount, refundID, n.ContactAddr)
}

func (n *NotificationService) ownerCancellationBody(order *models.Order, refundID string) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif;">
      <h2 style="color: #ed1c24;">Order Cancelled and Refunded</h2>
      <p>A customer has cancelled their order:</p>

      <div style="background-color: #f7f7f7; padding: 15px; border-radius: 5px; margin: 20px 0;">
        <p><strong>Order ID:</strong> %s</p>
        <p><strong>Customer:</strong> %s</p>
        <p><strong>Email:</strong> %s</p>
        <p><strong>Phone:</strong> %s</p>
        <p><strong>Service Plan:</strong> %s</p>
        <p><strong>Service Address:</strong> %s</p>
        <p><strong>Refund Amount:</strong> $%.2f</p>
        <p><strong>Refund ID:</strong> %s</p>
      </div>

      <p>This order has been removed from the schedule and the customer has been refunded.</p>
    </div>`,
		shortID(order.StripeSessionID), order.CustomerName, order.CustomerEmail,
		order.CustomerPhone, order.ServicePlanDisplay, order.Address, order.Amount, refundID)
}
