package simulator

const (
	DeliverReward      = 100 // passenger reaches destination
	UndeliveredPenalty = -20 // passenger still waiting or riding at the end
	WaitCostPerTurn    = 1
	MoveCost           = 1 // per floor travelled
	RushHours          = 3 // bursts per run in clustered buildings
	RushSpreadDiv      = 20
	TokenLength        = 20
)
