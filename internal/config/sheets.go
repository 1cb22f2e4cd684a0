package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/malex-office/internal/sheets"
)

// LoadSheetsConfig builds the Google Sheets configuration. Values from v
// (config file or MALEX_ env vars) win over the GOOGLE_SHEETS_* variables,
// which win over the defaults. The result is not validated so that the
// OAuth flow can run before a token exists.
func LoadSheetsConfig(v *viper.Viper) sheets.Config {
	config := sheets.DefaultConfig()

	pick := func(key, env string) string {
		if s := v.GetString(key); s != "" {
			return s
		}
		return os.Getenv(env)
	}

	config.ServiceAccountPath = ExpandPath(pick("sheets.service_account_path", "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"))
	config.ClientID = pick("sheets.client_id", "GOOGLE_SHEETS_CLIENT_ID")
	config.ClientSecret = pick("sheets.client_secret", "GOOGLE_SHEETS_CLIENT_SECRET")
	config.RefreshToken = pick("sheets.refresh_token", "GOOGLE_SHEETS_REFRESH_TOKEN")
	config.TokenFile = ExpandPath(pick("sheets.token_file", "GOOGLE_SHEETS_TOKEN_FILE"))
	config.SpreadsheetID = pick("sheets.spreadsheet_id", "GOOGLE_SHEETS_SPREADSHEET_ID")

	if name := pick("sheets.spreadsheet_name", "GOOGLE_SHEETS_SPREADSHEET_NAME"); name != "" {
		config.SpreadsheetName = name
	}
	if title := v.GetString("sheets.sheet_title"); title != "" {
		config.SheetTitle = title
	}
	if tz := v.GetString(KeyDisplayTimezone); tz != "" {
		config.TimeZone = tz
	}
	if n := v.GetInt("sheets.batch_size"); n > 0 {
		config.BatchSize = n
	}

	return config
}
