package proto

// Transport entities carry the server identity in ID/GroupID/GroupFieldID
// and the sender's local identity in the Local* fields, so that either side
// can match an acknowledged row back to its own copy.

type User struct {
	ID                  int64  `json:"id"`
	Email               string `json:"email"`
	Name                string `json:"name"`
	Passwd              string `json:"passwd,omitempty"`
	Status              int32  `json:"status"`
	TimestampLastUpdate int64  `json:"timestamp_last_update"`
}

type Group struct {
	ID                int64  `json:"id"`
	LocalID           int64  `json:"local_id"`
	UserID            int64  `json:"user_id"`
	GroupID           int64  `json:"group_id"`
	LocalGroupID      int64  `json:"local_group_id"`
	Title             string `json:"title"`
	Icon              string `json:"icon"`
	Note              string `json:"note"`
	IsHidden          bool   `json:"is_hidden"`
	Deleted           bool   `json:"deleted"`
	TimestampCreation int64  `json:"timestamp_creation"`
}

type GroupField struct {
	ID                int64  `json:"id"`
	LocalID           int64  `json:"local_id"`
	UserID            int64  `json:"user_id"`
	GroupID           int64  `json:"group_id"`
	LocalGroupID      int64  `json:"local_group_id"`
	Title             string `json:"title"`
	IsHidden          bool   `json:"is_hidden"`
	Deleted           bool   `json:"deleted"`
	TimestampCreation int64  `json:"timestamp_creation"`
}

type Field struct {
	ID                int64  `json:"id"`
	LocalID           int64  `json:"local_id"`
	UserID            int64  `json:"user_id"`
	GroupID           int64  `json:"group_id"`
	LocalGroupID      int64  `json:"local_group_id"`
	GroupFieldID      int64  `json:"group_field_id"`
	LocalGroupFieldID int64  `json:"local_group_field_id"`
	Title             string `json:"title"`
	Value             string `json:"value"`
	IsHidden          bool   `json:"is_hidden"`
	Deleted           bool   `json:"deleted"`
	TimestampCreation int64  `json:"timestamp_creation"`
}

type Empty struct{}

type LoginRequest struct {
	Email    string `json:"email"`
	Passwd   string `json:"passwd"`
	DeviceID string `json:"device_id"`
	UseAES   bool   `json:"use_aes"`
}

type LoginResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
}

type DeviceRequest struct {
	DeviceID string `json:"device_id"`
}

// SendDataRequest carries the rows the client has not synchronized yet.
type SendDataRequest struct {
	User        *User         `json:"user"`
	Groups      []*Group      `json:"groups"`
	GroupFields []*GroupField `json:"group_fields"`
	Fields      []*Field      `json:"fields"`
}

// SendDataResponse echoes the acknowledged rows with their server ids and
// adds the rows changed on the server since the user's last update. Those
// have LocalID 0.
type SendDataResponse struct {
	User        *User         `json:"user"`
	Groups      []*Group      `json:"groups"`
	GroupFields []*GroupField `json:"group_fields"`
	Fields      []*Field      `json:"fields"`
}

type ChangePasswdRequest struct {
	Email     string `json:"email"`
	Passwd    string `json:"passwd"`
	NewPasswd string `json:"new_passwd"`
	UseAES    bool   `json:"use_aes"`
}

type ChangePasswdResponse struct {
	User *User `json:"user"`
}

type CopyRequest struct {
	SrcID int64 `json:"src_id"`
	DstID int64 `json:"dst_id"`
	Move  bool  `json:"move"`
}

type ExportDataResponse struct {
	Data []byte `json:"data"`
}

type ImportDataRequest struct {
	Data []byte `json:"data"`
}

type HeartbeatResponse struct {
	TimestampLastUpdate int64 `json:"timestamp_last_update"`
}
