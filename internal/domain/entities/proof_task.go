package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ProofTaskStatus is the lifecycle state of a background on-chain proof task.
type ProofTaskStatus string

const (
	ProofTaskPending   ProofTaskStatus = "pending"
	ProofTaskRunning   ProofTaskStatus = "running"
	ProofTaskCompleted ProofTaskStatus = "completed"
	ProofTaskFailed    ProofTaskStatus = "failed"
)

// ProofOperation names what a proof task does on chain.
type ProofOperation string

const (
	// ProofOpStoreDelete writes the salted verification digest on chain and
	// then removes it in the same task, leaving only the transaction trail.
	ProofOpStoreDelete ProofOperation = "store_delete"
	ProofOpStore       ProofOperation = "store"
	ProofOpDelete      ProofOperation = "delete"
)

// ProofTask is a queued on-chain verification proof operation. Tasks are
// retried up to MaxAttempts before being marked failed.
type ProofTask struct {
	ID             uuid.UUID       `json:"id"`
	OrganizationID uuid.UUID       `json:"organizationId"`
	Operation      ProofOperation  `json:"operation"`
	Status         ProofTaskStatus `json:"status"`
	Attempts       int             `json:"attempts"`
	MaxAttempts    int             `json:"maxAttempts"`
	StoreTxHash    null.String     `json:"storeTxHash,omitempty"`
	DeleteTxHash   null.String     `json:"deleteTxHash,omitempty"`
	LastError      null.String     `json:"lastError,omitempty"`
	RunAfter       time.Time       `json:"runAfter"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Exhausted reports whether the task has used up its retry budget.
func (t *ProofTask) Exhausted() bool {
	return t.Attempts >= t.MaxAttempts
}
