package exchange

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// BodyByteBudget caps how much of a request or response body is archived.
const BodyByteBudget = 64 * 1024

// Record is one archived request/response exchange. Rows are append-only and
// outlive any single sync run; the archive is never pruned.
type Record struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	StoreIdentity     string `gorm:"type:varchar(64);index"`
	Method            string `gorm:"type:varchar(8);not null"`
	Endpoint          string `gorm:"type:varchar(256);not null;index"`
	RegistryKey       string `gorm:"type:varchar(300);not null;index"`
	RequestBody       string `gorm:"type:text"`
	RequestTruncated  bool   `gorm:"not null;default:false"`
	ResponseBody      string `gorm:"type:text"`
	ResponseTruncated bool   `gorm:"not null;default:false"`
	ResponseHash      string `gorm:"type:varchar(64)"`
	HTTPStatus        int
	Success           bool      `gorm:"not null;index"`
	ErrorMessage      string    `gorm:"type:text"`
	FetchedAt         time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "raw_exchange_records"
}

// Exchange is the raw material handed to the archive by the remote client
// after every call, success or failure.
type Exchange struct {
	StoreIdentity string
	Method        string
	Endpoint      string
	RequestBody   []byte
	ResponseBody  []byte
	HTTPStatus    int
	Success       bool
	ErrorMessage  string
	FetchedAt     time.Time
}

// MakeRegistryKey builds the registry key for an endpoint.
func MakeRegistryKey(method, endpoint string) string {
	return method + " " + endpoint
}

// Truncate caps a body at the byte budget, reporting whether it was cut.
func Truncate(body []byte, budget int) (string, bool) {
	if len(body) <= budget {
		return string(body), false
	}
	return string(body[:budget]), true
}

// HashBody returns the hex SHA-256 of the full, untruncated body.
func HashBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// NewRecord builds an archive row from a raw exchange, applying the body
// budget and content hash.
func NewRecord(ex Exchange) *Record {
	reqBody, reqCut := Truncate(ex.RequestBody, BodyByteBudget)
	respBody, respCut := Truncate(ex.ResponseBody, BodyByteBudget)
	fetchedAt := ex.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	return &Record{
		StoreIdentity:     ex.StoreIdentity,
		Method:            ex.Method,
		Endpoint:          ex.Endpoint,
		RegistryKey:       MakeRegistryKey(ex.Method, ex.Endpoint),
		RequestBody:       reqBody,
		RequestTruncated:  reqCut,
		ResponseBody:      respBody,
		ResponseTruncated: respCut,
		ResponseHash:      HashBody(ex.ResponseBody),
		HTTPStatus:        ex.HTTPStatus,
		Success:           ex.Success,
		ErrorMessage:      ex.ErrorMessage,
		FetchedAt:         fetchedAt,
	}
}
