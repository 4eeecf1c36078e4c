package models

import "time"

// Client представляет клиента (должника), принадлежащего пользователю.
type Client struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Address   *string   `json:"address"`
	Phone     *string   `json:"phone"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientWithStats клиент с количеством долгов в каждом статусе.
type ClientWithStats struct {
	Client
	Pending int `json:"pending"`
	Paid    int `json:"paid"`
}

// ClientPatch содержит поля для частичного обновления клиента.
// nil означает, что поле не меняется.
type ClientPatch struct {
	Name    *string
	Email   *string
	Address *string
	Phone   *string
	Notes   *string
}

// ClientSort задаёт порядок выдачи списка клиентов.
type ClientSort string

const (
	// ClientSortRecent сначала недавно созданные.
	ClientSortRecent ClientSort = "recent"
	// ClientSortName по имени по алфавиту.
	ClientSortName ClientSort = "name"
)
