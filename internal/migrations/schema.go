package migrations

// schema lists every migration in application order. Versions are frozen
// once shipped; new changes append a new entry.
var schema = []migration{
	{
		version: "0001_accounts",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS accounts (
				id UUID PRIMARY KEY,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT,
				role TEXT NOT NULL CHECK (role IN ('student', 'teacher', 'admin')),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts (email)`,
			`CREATE INDEX IF NOT EXISTS idx_accounts_role ON accounts (role)`,
		},
	},
	{
		version: "0002_teacher_profiles",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS teacher_profiles (
				teacher_id UUID PRIMARY KEY REFERENCES accounts (id) ON DELETE CASCADE,
				instrument TEXT NOT NULL DEFAULT 'Not specified',
				bio TEXT NOT NULL DEFAULT '',
				contact_info TEXT NOT NULL DEFAULT '',
				class_limit INTEGER NOT NULL DEFAULT 10 CHECK (class_limit > 0),
				current_class_count INTEGER NOT NULL DEFAULT 0 CHECK (current_class_count >= 0),
				is_full BOOLEAN NOT NULL DEFAULT FALSE,
				rate_per_session NUMERIC(10,2) NOT NULL DEFAULT 0.00,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT capacity_within_limit CHECK (current_class_count <= class_limit)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_teacher_profiles_instrument ON teacher_profiles (instrument)`,
		},
	},
	{
		version: "0003_availability_slots",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS availability_slots (
				teacher_id UUID NOT NULL REFERENCES teacher_profiles (teacher_id) ON DELETE CASCADE,
				day_of_week TEXT NOT NULL CHECK (day_of_week IN ('Monday', 'Tuesday', 'Wednesday', 'Thursday', 'Friday', 'Saturday', 'Sunday')),
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				available BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (teacher_id, day_of_week, start_time)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_availability_slots_teacher ON availability_slots (teacher_id)`,
		},
	},
	{
		version: "0004_enrollments",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS enrollments (
				student_id UUID NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
				teacher_id UUID NOT NULL REFERENCES teacher_profiles (teacher_id) ON DELETE CASCADE,
				day_of_week TEXT NOT NULL CHECK (day_of_week IN ('Monday', 'Tuesday', 'Wednesday', 'Thursday', 'Friday', 'Saturday', 'Sunday')),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (student_id, teacher_id, day_of_week)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_enrollments_teacher ON enrollments (teacher_id)`,
		},
	},
	{
		version: "0005_lessons",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS lessons (
				id UUID PRIMARY KEY,
				teacher_id UUID NOT NULL REFERENCES teacher_profiles (teacher_id) ON DELETE CASCADE,
				student_id UUID REFERENCES accounts (id) ON DELETE SET NULL,
				student_name TEXT NOT NULL,
				instrument TEXT NOT NULL DEFAULT '',
				lesson_date TEXT NOT NULL,
				lesson_time TEXT NOT NULL,
				lesson_type TEXT NOT NULL DEFAULT 'InPerson',
				status TEXT NOT NULL DEFAULT 'scheduled' CHECK (status IN ('scheduled', 'completed', 'cancelled')),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS uq_lessons_teacher_slot
				ON lessons (teacher_id, lesson_date, lesson_time) WHERE status = 'scheduled'`,
			`CREATE INDEX IF NOT EXISTS idx_lessons_student ON lessons (student_id)`,
		},
	},
	{
		version: "0006_payments",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS payments (
				id UUID PRIMARY KEY,
				student_id UUID NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
				teacher_id UUID NOT NULL REFERENCES teacher_profiles (teacher_id) ON DELETE CASCADE,
				amount NUMERIC(10,2) NOT NULL CHECK (amount > 0),
				admin_fee NUMERIC(10,2) NOT NULL DEFAULT 0.00,
				method TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'Completed' CHECK (status IN ('Pending', 'Completed', 'Failed', 'Refunded')),
				transaction_id TEXT NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
			`CREATE INDEX IF NOT EXISTS idx_payments_student ON payments (student_id)`,
			`CREATE INDEX IF NOT EXISTS idx_payments_teacher ON payments (teacher_id)`,
		},
	},
	{
		version: "0007_sessions",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS sessions (
				token_id UUID PRIMARY KEY,
				account_id UUID NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				expires_at TIMESTAMPTZ NOT NULL,
				ip_address TEXT NOT NULL DEFAULT '',
				user_agent TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_account ON sessions (account_id)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions (expires_at)`,
		},
	},
	{
		version: "0008_report_exports",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS report_exports (
				id UUID PRIMARY KEY,
				report_type TEXT NOT NULL,
				format TEXT NOT NULL CHECK (format IN ('csv', 'pdf')),
				status TEXT NOT NULL DEFAULT 'QUEUED' CHECK (status IN ('QUEUED', 'PROCESSING', 'FINISHED', 'FAILED')),
				progress INTEGER NOT NULL DEFAULT 0,
				result_url TEXT,
				error_message TEXT,
				created_by UUID NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				finished_at TIMESTAMPTZ
			)`,
		},
	},
	{
		// Legacy databases predating the normalized profile columns. These
		// ALTERs fail with "already exists" on fresh installs; tolerant
		// mode swallows exactly that.
		version:  "0009_legacy_profile_columns",
		tolerant: true,
		statements: []string{
			`ALTER TABLE teacher_profiles ADD COLUMN contact_info TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE teacher_profiles ADD COLUMN rate_per_session NUMERIC(10,2) NOT NULL DEFAULT 0.00`,
		},
	},
}
