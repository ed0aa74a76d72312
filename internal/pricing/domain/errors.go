package domain

import "errors"

var (
	ErrRuleNotFound         = errors.New("pricing rule not found")
	ErrInvalidRuleName      = errors.New("rule name is required")
	ErrInvalidRuleType      = errors.New("invalid rule type")
	ErrInvalidRuleValue     = errors.New("rule value must not be negative")
	ErrInvalidCustomerType  = errors.New("invalid customer type")
	ErrInvalidPriorityLevel = errors.New("invalid priority level")
	ErrInvalidDistanceRange = errors.New("min distance must not exceed max distance")
	ErrInvalidWeightRange   = errors.New("min weight must not exceed max weight")
	ErrInvalidDistance      = errors.New("distance must not be negative")
	ErrInvalidWeight        = errors.New("weight must not be negative")
)
