package storage

const (
	listInvestors = `SELECT id, name, phone, share_percentage, total_invested, total_profit,
       total_withdrawn, current_balance, last_updated
FROM investors ORDER BY rowid`

	listExpenses = `SELECT id, category, amount, date, notes, added_by, attachments
FROM expenses ORDER BY rowid`

	listRevenues = `SELECT id, amount, date, description, added_by, attachments
FROM revenues ORDER BY rowid`

	listWithdrawals = `SELECT id, investor_name, investor_id, amount, date, notes, approved_by
FROM withdrawals ORDER BY rowid`

	listProjectWithdrawals = `SELECT id, amount, date, notes, approved_by
FROM project_withdrawals ORDER BY rowid`

	getSettings = `SELECT project_percentage, currency, sheet_id, last_sync,
       enable_ai_insights, enable_drive_link
FROM settings WHERE id = 1`

	insertInvestor = `INSERT INTO investors (id, name, phone, share_percentage, total_invested,
       total_profit, total_withdrawn, current_balance, last_updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertExpense = `INSERT INTO expenses (id, category, amount, date, notes, added_by, attachments)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	insertRevenue = `INSERT INTO revenues (id, amount, date, description, added_by, attachments)
VALUES (?, ?, ?, ?, ?, ?)`

	insertWithdrawal = `INSERT INTO withdrawals (id, investor_name, investor_id, amount, date, notes, approved_by)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	insertProjectWithdrawal = `INSERT INTO project_withdrawals (id, amount, date, notes, approved_by)
VALUES (?, ?, ?, ?, ?)`

	upsertSettings = `INSERT INTO settings (id, project_percentage, currency, sheet_id, last_sync,
       enable_ai_insights, enable_drive_link)
VALUES (1, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    project_percentage = excluded.project_percentage,
    currency           = excluded.currency,
    sheet_id           = excluded.sheet_id,
    last_sync          = excluded.last_sync,
    enable_ai_insights = excluded.enable_ai_insights,
    enable_drive_link  = excluded.enable_drive_link`
)

// ledgerTables are cleared, in this order, before an import.
var ledgerTables = []string{"investors", "expenses", "revenues", "withdrawals", "project_withdrawals"}
