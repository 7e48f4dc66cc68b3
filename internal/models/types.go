package models

type BlockType string

const (
	BlockTypeText   BlockType = "text"
	BlockTypePhoto  BlockType = "photo"
	BlockTypeVideo  BlockType = "video"
	BlockTypeButton BlockType = "button"
)

type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionReject  DecisionAction = "reject"
)

func (a DecisionAction) Valid() bool {
	return a == ActionApprove || a == ActionReject
}
