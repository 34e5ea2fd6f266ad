package models

import "fmt"

type Rider struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Index      int    `json:"index"`
	BusyUntil  int    `json:"busy_until"` // free when BusyUntil <= current minute
	Deliveries int    `json:"deliveries"`
}

func (r *Rider) IsFree(now int) bool {
	return r.BusyUntil <= now
}

func RiderID(index int) string {
	return fmt.Sprintf("rider-%d", index+1)
}
