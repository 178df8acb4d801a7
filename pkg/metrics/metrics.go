package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ApprovalDecisions counts admin review decisions by outcome
	// (approved, rejected, reset).
	ApprovalDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kyb_approval_decisions_total",
		Help: "Admin KYB review decisions by outcome",
	}, []string{"outcome"})

	// OrgSyncRuns counts organization sync passes.
	OrgSyncRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "org_sync_runs_total",
		Help: "Organization sync passes executed",
	})

	// OrgSyncWrites counts documents written by the syncer, by kind
	// (created, updated).
	OrgSyncWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "org_sync_writes_total",
		Help: "Organization records written by the syncer",
	}, []string{"kind"})

	// EmailsSent counts outbound notification emails by template and result.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emails_sent_total",
		Help: "Outbound notification emails by template and result",
	}, []string{"template", "result"})

	// OnChainProofs counts on-chain proof transactions by operation
	// (store, delete) and result.
	OnChainProofs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "onchain_proofs_total",
		Help: "On-chain verification proof transactions by operation and result",
	}, []string{"operation", "result"})
)
