package models

// ============================================================
// Library Models
// ============================================================

// DesignSummary: строка списка библиотеки, без содержимого.
type DesignSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Components int    `json:"components"`
	Wires      int    `json:"wires"`
	CreatedAt  string `json:"created_at"`
}

// DesignRecord: сохраненная схема целиком (JSON в формате выгрузки).
type DesignRecord struct {
	DesignSummary
	Content string `json:"content"`
}
