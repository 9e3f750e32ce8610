package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/storefront/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type chanAudit struct {
	entries chan *models.AuditLog
	err     error
}

func (c *chanAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	c.entries <- log
	return c.err
}

func waitEntry(t *testing.T, c *chanAudit) *models.AuditLog {
	t.Helper()
	select {
	case e := <-c.entries:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not recorded")
		return nil
	}
}

func testOrder() *models.Order {
	return &models.Order{
		ID:          "ord-1",
		PaymentID:   "pay_1",
		Customer:    models.Customer{Name: "Asha", Email: "asha@example.com", Phone: "9999999999"},
		TotalAmount: 2600,
	}
}

func TestNotifierOrderPaid(t *testing.T) {
	audit := &chanAudit{entries: make(chan *models.AuditLog, 1)}
	n, err := NewNotifier(audit, zap.NewNop())
	require.NoError(t, err)
	defer n.Stop()

	n.OrderPaid(testOrder())

	entry := waitEntry(t, audit)
	assert.Equal(t, "notify_order_paid", entry.Action)
	assert.Equal(t, "ord-1", entry.EntityID)
	assert.Equal(t, "asha@example.com", entry.Data["recipient"])
	assert.Equal(t, "pay_1", entry.Data["payment_id"])
	assert.Contains(t, entry.Data["message"], "pay_1")
}

func TestNotifierKeepsRunningAfterAuditFailure(t *testing.T) {
	audit := &chanAudit{entries: make(chan *models.AuditLog, 2), err: errors.New("mongo down")}
	n, err := NewNotifier(audit, zap.NewNop())
	require.NoError(t, err)
	defer n.Stop()

	n.OrderCreated(testOrder())
	n.OrderPaid(testOrder())

	assert.Equal(t, "notify_order_created", waitEntry(t, audit).Action)
	assert.Equal(t, "notify_order_paid", waitEntry(t, audit).Action)
}
