package postgres

// Numeric and date columns are read back as text so decimal precision and
// calendar dates survive unchanged.
const (
	isoTimestamp = `'YYYY-MM-DD"T"HH24:MI:SS"Z"'`

	listInvestors = `SELECT id, name, phone, share_percentage::text, total_invested::text,
       total_profit::text, total_withdrawn::text, current_balance::text,
       COALESCE(to_char(last_updated AT TIME ZONE 'UTC', ` + isoTimestamp + `), '')
FROM investors ORDER BY seq`

	listExpenses = `SELECT id, category, amount::text, COALESCE(to_char(date, 'YYYY-MM-DD'), ''),
       notes, added_by, attachments::text
FROM expenses ORDER BY seq`

	listRevenues = `SELECT id, amount::text, COALESCE(to_char(date, 'YYYY-MM-DD'), ''),
       description, added_by, attachments::text
FROM revenues ORDER BY seq`

	listWithdrawals = `SELECT id, investor_name, investor_id, amount::text,
       COALESCE(to_char(date, 'YYYY-MM-DD'), ''), notes, approved_by
FROM withdrawals ORDER BY seq`

	listProjectWithdrawals = `SELECT id, amount::text, COALESCE(to_char(date, 'YYYY-MM-DD'), ''),
       notes, approved_by
FROM project_withdrawals ORDER BY seq`

	getSettings = `SELECT project_percentage::text, currency, sheet_id,
       COALESCE(to_char(last_sync AT TIME ZONE 'UTC', ` + isoTimestamp + `), ''),
       enable_ai_insights, enable_drive_link
FROM settings WHERE id = 1`

	truncateLedger = `TRUNCATE investors, expenses, revenues, withdrawals, project_withdrawals RESTART IDENTITY`

	insertInvestor = `INSERT INTO investors (id, name, phone, share_percentage, total_invested,
       total_profit, total_withdrawn, current_balance, last_updated)
VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric, $8::numeric,
        NULLIF($9, '')::timestamptz)`

	insertExpense = `INSERT INTO expenses (id, category, amount, date, notes, added_by, attachments)
VALUES ($1, $2, $3::numeric, NULLIF($4, '')::date, $5, $6, $7::jsonb)`

	insertRevenue = `INSERT INTO revenues (id, amount, date, description, added_by, attachments)
VALUES ($1, $2::numeric, NULLIF($3, '')::date, $4, $5, $6::jsonb)`

	insertWithdrawal = `INSERT INTO withdrawals (id, investor_name, investor_id, amount, date, notes, approved_by)
VALUES ($1, $2, $3, $4::numeric, NULLIF($5, '')::date, $6, $7)`

	insertProjectWithdrawal = `INSERT INTO project_withdrawals (id, amount, date, notes, approved_by)
VALUES ($1, $2::numeric, NULLIF($3, '')::date, $4, $5)`

	upsertSettings = `INSERT INTO settings (id, project_percentage, currency, sheet_id, last_sync,
       enable_ai_insights, enable_drive_link)
VALUES (1, $1::numeric, $2, $3, NULLIF($4, '')::timestamptz, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    project_percentage = EXCLUDED.project_percentage,
    currency           = EXCLUDED.currency,
    sheet_id           = EXCLUDED.sheet_id,
    last_sync          = EXCLUDED.last_sync,
    enable_ai_insights = EXCLUDED.enable_ai_insights,
    enable_drive_link  = EXCLUDED.enable_drive_link`
)
