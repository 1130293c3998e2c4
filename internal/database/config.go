/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package database

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// ConnectionConfig holds the credentials for one OceanBase/MySQL database.
// It is built per request and never persisted.
type ConnectionConfig struct {
	Hostname string
	Port     string
	DBName   string
	Username string
	Password string
}

// NewConnectionConfig builds a ConnectionConfig from a host-supplied
// credentials map (hostname, port, db_name, username, password). Ports may
// arrive as JSON numbers or strings.
func NewConnectionConfig(creds map[string]interface{}) ConnectionConfig {
	return ConnectionConfig{
		Hostname: credentialString(creds["hostname"]),
		Port:     credentialString(creds["port"]),
		DBName:   credentialString(creds["db_name"]),
		Username: credentialString(creds["username"]),
		Password: credentialString(creds["password"]),
	}
}

func credentialString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// IsValid reports whether hostname, port and username are all present.
// Password and database name may be empty.
func (c ConnectionConfig) IsValid() bool {
	return c.Hostname != "" && c.Port != "" && c.Username != ""
}

// Address returns host:port as used by the hybrid search client
func (c ConnectionConfig) Address() string {
	return net.JoinHostPort(c.Hostname, c.Port)
}

// URI returns the connection URI for the OceanBase dialect. User name and
// password are percent-encoded so the URI parses back to the same values.
func (c ConnectionConfig) URI() string {
	u := url.URL{
		Scheme:   SchemeOceanBase,
		User:     url.UserPassword(c.Username, c.Password),
		Host:     c.Address(),
		Path:     "/" + c.DBName,
		RawQuery: "charset=utf8mb4",
	}
	return u.String()
}

// String renders the config with the password masked
func (c ConnectionConfig) String() string {
	password := ""
	if c.Password != "" {
		password = "xxxxx"
	}
	return fmt.Sprintf("ConnectionConfig{hostname=%q, port=%q, db_name=%q, username=%q, password=%q}",
		c.Hostname, c.Port, c.DBName, c.Username, password)
}
