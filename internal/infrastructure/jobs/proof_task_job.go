package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/volatiletech/null/v8"

	"cryptorafts.backend/internal/domain/entities"
	"cryptorafts.backend/internal/domain/repositories"
	"cryptorafts.backend/pkg/crypto"
	"cryptorafts.backend/pkg/metrics"
)

// proofRegistry is satisfied by blockchain.VerificationRegistry
type proofRegistry interface {
	StoreProof(ctx context.Context, recordID, digestHex, saltHex string) (string, error)
	DeleteProof(ctx context.Context, recordID string) (string, error)
}

const retryBackoff = 2 * time.Minute

// ProofTaskJob drains the on-chain proof task queue. Each store_delete task
// writes the organization's salted digest to the registry and immediately
// removes it again, leaving only the transaction trail as public evidence.
type ProofTaskJob struct {
	tasks    repositories.ProofTaskRepository
	orgs     repositories.OrganizationRepository
	registry proofRegistry
	interval time.Duration
	stop     chan struct{}
}

func NewProofTaskJob(tasks repositories.ProofTaskRepository, orgs repositories.OrganizationRepository, registry proofRegistry) *ProofTaskJob {
	return &ProofTaskJob{
		tasks:    tasks,
		orgs:     orgs,
		registry: registry,
		interval: 30 * time.Second,
		stop:     make(chan struct{}),
	}
}

func (j *ProofTaskJob) Start(ctx context.Context) {
	log.Println("🕐 Starting on-chain proof task job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Proof task job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Proof task job stopped")
			return
		case <-ticker.C:
			j.processDueTasks(ctx)
		}
	}
}

func (j *ProofTaskJob) Stop() {
	close(j.stop)
}

func (j *ProofTaskJob) processDueTasks(ctx context.Context) {
	due, err := j.tasks.ClaimDue(ctx, time.Now(), 20)
	if err != nil {
		log.Printf("❌ Error claiming proof tasks: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	log.Printf("🔄 Processing %d on-chain proof tasks...", len(due))

	for _, task := range due {
		j.runTask(ctx, task)
	}
}

func (j *ProofTaskJob) runTask(ctx context.Context, task *entities.ProofTask) {
	task.Attempts++

	err := j.execute(ctx, task)
	if err == nil {
		task.Status = entities.ProofTaskCompleted
		task.LastError = null.String{}
		if updateErr := j.tasks.Update(ctx, task); updateErr != nil {
			log.Printf("❌ Error saving completed proof task %s: %v", task.ID, updateErr)
		}
		log.Printf("✅ Proof task %s completed (org %s)", task.ID, task.OrganizationID)
		return
	}

	log.Printf("❌ Proof task %s attempt %d/%d failed: %v", task.ID, task.Attempts, task.MaxAttempts, err)
	task.LastError = null.StringFrom(err.Error())

	if task.Exhausted() {
		task.Status = entities.ProofTaskFailed
	} else {
		task.Status = entities.ProofTaskPending
		task.RunAfter = time.Now().Add(retryBackoff * time.Duration(task.Attempts))
	}

	if updateErr := j.tasks.Update(ctx, task); updateErr != nil {
		log.Printf("❌ Error saving failed proof task %s: %v", task.ID, updateErr)
	}
}

func (j *ProofTaskJob) execute(ctx context.Context, task *entities.ProofTask) error {
	org, err := j.orgs.GetByID(ctx, task.OrganizationID)
	if err != nil {
		return fmt.Errorf("load organization: %w", err)
	}

	recordID := org.ID.String()

	if task.Operation == entities.ProofOpStoreDelete || task.Operation == entities.ProofOpStore {
		if !task.StoreTxHash.Valid {
			digest, err := crypto.HashWithSalt(proofPayload(org), "")
			if err != nil {
				return fmt.Errorf("compute digest: %w", err)
			}
			txHash, err := j.registry.StoreProof(ctx, recordID, digest.Hash, digest.Salt)
			if err != nil {
				metrics.OnChainProofs.WithLabelValues("store", "error").Inc()
				return fmt.Errorf("store proof: %w", err)
			}
			metrics.OnChainProofs.WithLabelValues("store", "ok").Inc()
			task.StoreTxHash = null.StringFrom(txHash)

			org.OnChainTxHash = null.StringFrom(txHash)
			org.OnChainStoredAt = null.TimeFrom(time.Now())
			if err := j.orgs.UpdateOnChain(ctx, org); err != nil {
				return fmt.Errorf("record store tx: %w", err)
			}
		}
	}

	if task.Operation == entities.ProofOpStoreDelete || task.Operation == entities.ProofOpDelete {
		if !task.DeleteTxHash.Valid {
			txHash, err := j.registry.DeleteProof(ctx, recordID)
			if err != nil {
				metrics.OnChainProofs.WithLabelValues("delete", "error").Inc()
				return fmt.Errorf("delete proof: %w", err)
			}
			metrics.OnChainProofs.WithLabelValues("delete", "ok").Inc()
			task.DeleteTxHash = null.StringFrom(txHash)

			org.OnChainDeleted = true
			org.OnChainDeleteTxHash = null.StringFrom(txHash)
			org.OnChainDeletedAt = null.TimeFrom(time.Now())
			if err := j.orgs.UpdateOnChain(ctx, org); err != nil {
				return fmt.Errorf("record delete tx: %w", err)
			}
		}
	}

	return nil
}

// proofPayload is the canonical string digested for the registry. It must
// stay stable across releases or digests stop matching their proofs.
func proofPayload(org *entities.Organization) string {
	return fmt.Sprintf("%s|%s|%s|%s", org.ID, org.OrganizationName, org.Email, org.KYBStatus)
}
