// Copyright (c) 2026 PrepDeck. All rights reserved.

package sec

// # Subscription Plans

// SubscriptionPlan identifies a paid (or free) feature tier.
type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "free"
	PlanPremium SubscriptionPlan = "premium"
	PlanPro     SubscriptionPlan = "pro"
)

// Rank maps a plan to its numeric position in the tier hierarchy.
// Unknown or empty plans rank as the lowest tier.
func (p SubscriptionPlan) Rank() int {
	switch p {
	case PlanPro:
		return 2
	case PlanPremium:
		return 1
	case PlanFree:
		return 0
	default:
		return 0
	}
}

// AtLeast checks if the plan meets or exceeds the required target tier.
// It compares rank only; callers must separately require the subscription
// to be currently active.
func (p SubscriptionPlan) AtLeast(target SubscriptionPlan) bool {
	return p.Rank() >= target.Rank()
}
