package models

import "time"

type DietPreference struct {
	Goal           string `json:"goal"`
	FoodPreference string `json:"foodPreference"`
	Allergies      string `json:"allergies,omitempty"`
	WakeUpTime     string `json:"wakeUpTime,omitempty"`
	SleepHours     string `json:"sleepHours,omitempty"`
}

type DietCompletion struct {
	Date      Day  `json:"date"`
	Completed bool `json:"completed"`
}

type FaceScoreEntry struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Score       int       `json:"score"`
	CoinsEarned int       `json:"coinsEarned"`
}

type CollectBoxClaim struct {
	Date  Day `json:"date"`
	Coins int `json:"coins"`
}
