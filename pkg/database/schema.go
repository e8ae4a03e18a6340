package database

// MemberProfilesSchema creates the profile table and its email index.
// Email is indexed, not unique.
var MemberProfilesSchema = []string{
	`CREATE TABLE IF NOT EXISTS member_profiles (
		id UUID PRIMARY KEY,
		email VARCHAR(320) NOT NULL,
		name VARCHAR(255) NOT NULL DEFAULT '',
		skool_member BOOLEAN NOT NULL DEFAULT false,
		skool_id VARCHAR(255),
		skool_join_date TIMESTAMPTZ,
		skool_status VARCHAR(20) NOT NULL DEFAULT 'inactive',
		is_paid BOOLEAN NOT NULL DEFAULT false,
		source VARCHAR(50) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_sync_from_skool TIMESTAMPTZ,
		skool_data JSONB,
		firebase_auth_id VARCHAR(128),
		last_auth_sync TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_member_profiles_email ON member_profiles(email)`,
}

// DropMemberProfilesSchema removes the profile table
var DropMemberProfilesSchema = []string{
	`DROP TABLE IF EXISTS member_profiles CASCADE`,
}
