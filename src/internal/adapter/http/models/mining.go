package models

type TimeRemaining struct {
	Hours        int64 `json:"hours"`
	Minutes      int64 `json:"minutes"`
	Seconds      int64 `json:"seconds"`
	TotalSeconds int64 `json:"totalSeconds"`
}

type MiningStatusResponse struct {
	MiningStatus           string         `json:"miningStatus"`
	SessionStart           *string        `json:"sessionStart"`
	SessionEnd             *string        `json:"sessionEnd"`
	TimeRemaining          *TimeRemaining `json:"timeRemaining"`
	CurrentSessionEarnings string         `json:"currentSessionEarnings"`
	CanStartMining         bool           `json:"canStartMining"`
}

type MiningStatisticsResponse struct {
	Balance         string               `json:"balance"`
	MiningRate      string               `json:"miningRate"`
	MiningRateBonus *string              `json:"miningRateBonus"`
	TeamSize        int                  `json:"teamSize"`
	ActiveMembers   int                  `json:"activeMembers"`
	InactiveMembers int                  `json:"inactiveMembers"`
	DaysActive      int64                `json:"daysActive"`
	MiningStatus    MiningStatusResponse `json:"miningStatus"`
}

type StartMiningResponse struct {
	MiningStatus   string `json:"miningStatus"`
	SessionStart   string `json:"sessionStart"`
	SessionEnd     string `json:"sessionEnd"`
	InitialBalance string `json:"initialBalance"`
}

type CompleteMiningResponse struct {
	Earnings     string `json:"earnings"`
	TotalBalance string `json:"totalBalance"`
	MiningStatus string `json:"miningStatus"`
	DaysActive   int64  `json:"daysActive"`
}

type RealTimeBalanceResponse struct {
	CurrentBalance         string `json:"currentBalance"`
	BaseBalance            string `json:"baseBalance"`
	CurrentSessionEarnings string `json:"currentSessionEarnings"`
	MiningStatus           string `json:"miningStatus"`
}

type NetworkStatsResponse struct {
	ActiveMiners     int    `json:"activeMiners"`
	NewActiveMiners  int    `json:"newActiveMiners"`
	ActiveMiningRate string `json:"activeMiningRate"`
	TotalSupply      string `json:"totalSupply"`
	MaxSupply        string `json:"maxSupply"`
	SupplyPercentage string `json:"supplyPercentage"`
}
