package common

import "fmt"

// Stat is the status code returned by public core operations and by the
// remote server. The numbering is shared with the server wire protocol.
type Stat int

const (
	StatReady Stat = 0
	StatBusy  Stat = 1
	StatOK    Stat = 200

	StatUserNotFound                Stat = 600
	StatWrongSizeToken              Stat = 601
	StatDeviceIDNotMatch            Stat = 602
	StatDeviceNotFound              Stat = 603
	StatSecretNotMatch              Stat = 604
	StatPasswdError                 Stat = 605
	StatTimestampLastUpdateNotMatch Stat = 606
	StatCacheNotFound               Stat = 607
	StatSecretEmpty                 Stat = 608
	StatTimestampLastNotParsable    Stat = 609

	StatError             Stat = 700
	StatJSONParsingError  Stat = 701
	StatDBGroupError      Stat = 702
	StatDBGroupFieldError Stat = 703
	StatDBFieldError      Stat = 704
	StatDBGenericError    Stat = 705
	StatNoNetwork         Stat = 706
	StatMapIDError        Stat = 707

	StatLocalDeviceIDNotMatch Stat = StatDeviceIDNotMatch + 200
)

var statNames = map[Stat]string{
	StatReady:                       "READY",
	StatBusy:                        "BUSY",
	StatOK:                          "OK",
	StatUserNotFound:                "USER_NOT_FOUND",
	StatWrongSizeToken:              "WRONG_SIZE_TOKEN",
	StatDeviceIDNotMatch:            "DEVICE_ID_NOT_MATCH",
	StatDeviceNotFound:              "DEVICE_NOT_FOUND",
	StatSecretNotMatch:              "SECRET_NOT_MATCH",
	StatPasswdError:                 "PASSWD_ERROR",
	StatTimestampLastUpdateNotMatch: "TIMESTAMP_LAST_UPDATE_NOT_MATCH",
	StatCacheNotFound:               "CACHE_NOT_FOUND",
	StatSecretEmpty:                 "SECRET_EMPTY",
	StatTimestampLastNotParsable:    "TIMESTAMP_LAST_NOT_PARSABLE",
	StatError:                       "ERROR",
	StatJSONParsingError:            "JSON_PARSING_ERROR",
	StatDBGroupError:                "DB_GROUP_ERROR",
	StatDBGroupFieldError:           "DB_GROUP_FIELD_ERROR",
	StatDBFieldError:                "DB_FIELD_ERROR",
	StatDBGenericError:              "DB_GENERIC_ERROR",
	StatNoNetwork:                   "NO_NETWORK",
	StatMapIDError:                  "MAP_ID_ERROR",
	StatLocalDeviceIDNotMatch:       "LOCAL_DEVICE_ID_NOT_MATCH",
}

func (s Stat) String() string {
	if n, ok := statNames[s]; ok {
		return n
	}
	return fmt.Sprintf("STAT(%d)", int(s))
}

// IsSuccess reports whether s is READY or OK.
func (s Stat) IsSuccess() bool {
	return s == StatReady || s == StatOK
}

// Known reports whether s belongs to the enumeration.
func (s Stat) Known() bool {
	_, ok := statNames[s]
	return ok
}
