package domain

// PresenceStatus definition user presence status
type PresenceStatus string

const (
	//StatusOnline user has a live connection
	StatusOnline PresenceStatus = "online"
	//StatusOffline user has no live connection
	StatusOffline PresenceStatus = "offline"
	//StatusAway user marked away
	StatusAway PresenceStatus = "away"
)

// User 由外部協作者擁有，gateway 僅更新 presence 欄位
type User struct {
	ID          string         `bson:"_id" json:"id"`
	Username    string         `bson:"username" json:"username"`
	DisplayName string         `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Status      PresenceStatus `bson:"status,omitempty" json:"status,omitempty"`
	LastSeen    int64          `bson:"last_seen,omitempty" json:"last_seen,omitempty"`
}
