package database

import (
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
)

type ItemRepository interface {
	StoreRawItems(day string, items []digest.RawItem) (int, error)
	GetRawItems(day string) ([]digest.RawItem, error)
	GetRawItemCount(day string) (int, error)
}

type DigestRepository interface {
	ReplaceDigest(day string, items []digest.Item) error
	GetDigest(day string) ([]DigestEntry, error)
	GetDays(limit int) ([]string, error)
	GetStats() (*Stats, error)
}

type SiteStateRepository interface {
	GetState(url string) (*SiteState, error)
	UpsertState(state SiteState) error
}
