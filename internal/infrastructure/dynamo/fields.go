package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldAccountID     = "account_id"
	fieldEmail         = "email"
	fieldEmailVerified = "email_verified"
	fieldOTPCode       = "otp_code"
	fieldOTPExpiresAt  = "otp_expires_at"
	fieldSessionID     = "session_id"
	fieldEnable        = "enable"
	fieldUpdatedAt     = "updated_at"
	fieldCountry       = "country"
	fieldRegionKey     = "region_key"
)

const (
	indexEmail = "email-index"

	// nullRegion is the sort key stored for country-level destinations (region is null).
	nullRegion = "#"
)
