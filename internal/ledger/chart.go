package ledger

// SeedNode is one predefined taxonomy node in the default chart. Parentage
// is implied by the code prefix, so the seed stays a flat literal.
type SeedNode struct {
	Code string
	Name string
}

// SeedAccount is one predefined postable account.
type SeedAccount struct {
	Code        string
	Name        string
	Description string
}

// SeedTypes through SeedAccounts make up the standard catalog installed
// under the General plan (plan 0) at migration time.
var SeedTypes = []SeedNode{
	{"1.0.0.000", "Assets"},
	{"2.0.0.000", "Liabilities"},
	{"3.0.0.000", "Equity"},
	{"4.0.0.000", "Revenue"},
	{"5.0.0.000", "Costs and Expenses"},
	{"6.0.0.000", "Memorandum Accounts"},
}

var SeedCategories = []SeedNode{
	{"1.1.0.000", "Current Assets"},
	{"1.2.0.000", "Non-Current Assets"},
	{"2.1.0.000", "Current Liabilities"},
	{"2.2.0.000", "Non-Current Liabilities"},
	{"3.1.0.000", "Share Capital"},
	{"3.2.0.000", "Reserves"},
	{"3.3.0.000", "Results for the Period"},
	{"3.4.0.000", "Other Comprehensive Income"},
	{"4.1.0.000", "Sales Revenue"},
	{"4.2.0.000", "Other Operating Income"},
	{"4.3.0.000", "Non-Operating Income"},
	{"5.1.0.000", "Cost of Sales"},
	{"5.2.0.000", "Operating Expenses"},
	{"5.3.0.000", "Other Expenses and Losses"},
	{"6.1.0.000", "Debit Memorandum Accounts"},
	{"6.2.0.000", "Credit Memorandum Accounts"},
}

var SeedGroups = []SeedNode{
	{"1.1.1.000", "Cash and Cash Equivalents"},
	{"1.1.2.000", "Short-Term Investments"},
	{"1.1.3.000", "Trade Receivables"},
	{"1.1.4.000", "Other Receivables"},
	{"1.1.5.000", "Inventories"},
	{"1.1.6.000", "Prepaid Expenses"},
	{"1.2.1.000", "Property, Plant and Equipment"},
	{"1.2.2.000", "Intangible Assets"},
	{"1.2.3.000", "Long-Term Investments"},
	{"1.2.4.000", "Other Non-Current Assets"},
	{"2.1.1.000", "Short-Term Borrowings"},
	{"2.1.2.000", "Trade Payables"},
	{"2.1.3.000", "Other Payables"},
	{"2.1.4.000", "Taxes Payable"},
	{"2.1.5.000", "Short-Term Provisions"},
	{"2.1.6.000", "Deferred Income"},
	{"2.2.1.000", "Long-Term Borrowings"},
	{"2.2.2.000", "Other Long-Term Liabilities"},
	{"3.1.1.000", "Share Capital"},
	{"3.2.1.000", "Reserves"},
	{"3.3.1.000", "Results for the Period"},
	{"3.4.1.000", "Other Comprehensive Income"},
	{"4.1.1.000", "Sales Revenue"},
	{"4.2.1.000", "Other Operating Income"},
	{"4.3.1.000", "Non-Operating Income"},
	{"5.1.1.000", "Cost of Sales"},
	{"5.2.1.000", "Selling Expenses"},
	{"5.2.2.000", "Administrative Expenses"},
	{"5.3.1.000", "Other Expenses and Losses"},
	{"6.1.1.000", "Debit Memorandum Accounts"},
	{"6.2.1.000", "Credit Memorandum Accounts"},
}

var SeedAccounts = []SeedAccount{
	{"1.1.1.001", "General Cash", "Cash on hand"},
	{"1.1.1.002", "Petty Cash", "Small disbursement fund"},
	{"1.1.1.003", "Fixed Funds", "Imprest funds"},
	{"1.1.1.004", "Banks (Local Currency)", "Current accounts in local currency"},
	{"1.1.1.005", "Banks (Foreign Currency)", "Current accounts in foreign currency"},
	{"1.1.1.006", "Cash Equivalents", "Highly liquid short-term instruments"},
	{"1.1.2.001", "Short-Term Financial Instruments", "Marketable securities"},
	{"1.1.2.002", "Short-Term Fixed Deposits", "Time deposits maturing within a year"},
	{"1.1.3.001", "Customers", "Trade accounts receivable"},
	{"1.1.3.002", "Notes Receivable", "Documented receivables"},
	{"1.1.3.003", "Allowance for Doubtful Accounts", "(-) Estimated uncollectible receivables"},
	{"1.1.4.001", "Employee Receivables", "Advances to officers and employees"},
	{"1.1.4.002", "Advances to Suppliers", "Prepayments on purchase orders"},
	{"1.1.4.003", "VAT Credit", "Recoverable value-added tax"},
	{"1.1.5.001", "Merchandise Inventory", "Goods available for sale"},
	{"1.1.5.002", "Raw Materials", "Materials awaiting production"},
	{"1.1.5.003", "Work in Process", "Partially finished goods"},
	{"1.1.5.004", "Finished Goods", "Completed goods awaiting sale"},
	{"1.1.5.005", "Materials and Supplies", "Consumables and spare parts"},
	{"1.1.5.006", "Allowance for Obsolete Inventory", "(-) Estimated inventory write-downs"},
	{"1.1.6.001", "Prepaid Insurance", "Insurance premiums paid in advance"},
	{"1.1.6.002", "Prepaid Interest", "Interest paid in advance"},
	{"1.1.6.003", "Prepaid Rent", "Lease payments made in advance"},
	{"1.2.1.001", "Land", "Land held for operations"},
	{"1.2.1.002", "Buildings", "Owned buildings and improvements"},
	{"1.2.1.003", "Machinery and Equipment", "Production machinery"},
	{"1.2.1.004", "Furniture and Fixtures", "Office furniture"},
	{"1.2.1.005", "Computer Equipment", "IT hardware"},
	{"1.2.1.006", "Vehicles", "Company vehicles"},
	{"1.2.1.007", "Accumulated Depreciation", "(-) Depreciation of tangible assets"},
	{"1.2.2.001", "Trademarks and Patents", "Registered industrial property"},
	{"1.2.2.002", "Software Licenses", "Acquired software rights"},
	{"1.2.2.003", "Goodwill", "Excess of purchase price over fair value"},
	{"1.2.2.004", "Accumulated Amortization", "(-) Amortization of intangibles"},
	{"1.2.3.001", "Investments in Subsidiaries", "Long-term equity holdings"},
	{"1.2.3.002", "Long-Term Bonds", "Debt securities held to maturity"},
	{"1.2.4.001", "Long-Term Guarantee Deposits", "Refundable deposits"},
	{"2.1.1.001", "Bank Overdrafts", "Negative bank balances"},
	{"2.1.1.002", "Short-Term Bank Loans", "Borrowings due within a year"},
	{"2.1.1.003", "Current Portion of Long-Term Debt", "Long-term debt maturing this year"},
	{"2.1.2.001", "Domestic Suppliers", "Trade payables, domestic"},
	{"2.1.2.002", "Foreign Suppliers", "Trade payables, foreign"},
	{"2.1.2.003", "Notes Payable", "Documented payables"},
	{"2.1.3.001", "Payables to Shareholders", "Amounts owed to shareholders"},
	{"2.1.3.002", "Sundry Creditors", "Miscellaneous payables"},
	{"2.1.3.003", "Withholdings Payable", "Taxes withheld pending remittance"},
	{"2.1.3.004", "VAT Debit", "Value-added tax collected"},
	{"2.1.4.001", "Income Tax Payable", "Corporate income tax due"},
	{"2.1.4.002", "Municipal Tax Payable", "Local business taxes due"},
	{"2.1.5.001", "Provision for Legal Expenses", "Estimated litigation costs"},
	{"2.1.5.002", "Provision for Severance", "Estimated termination benefits"},
	{"2.1.6.001", "Deferred Income", "Payments received for undelivered services"},
	{"2.2.1.001", "Long-Term Bank Loans", "Borrowings due beyond a year"},
	{"2.2.1.002", "Mortgages Payable", "Secured long-term debt"},
	{"2.2.2.001", "Pension Provisions", "Estimated retirement obligations"},
	{"3.1.1.001", "Subscribed and Paid Capital", "Issued share capital"},
	{"3.1.1.002", "Subscribed Capital Receivable", "(-) Unpaid subscribed capital"},
	{"3.2.1.001", "Legal Reserve", "Statutory reserve"},
	{"3.2.1.002", "Voluntary Reserves", "Discretionary reserves"},
	{"3.2.1.003", "Inflation Adjustment", "Monetary correction reserve"},
	{"3.3.1.001", "Net Income or Loss", "Result of the current period"},
	{"3.3.1.002", "Accumulated Results", "Retained results of prior periods"},
	{"3.4.1.001", "Currency Translation Adjustments", "Translation differences"},
	{"4.1.1.001", "Sales", "Revenue from goods and services"},
	{"4.1.1.002", "Sales Returns", "(-) Returned sales"},
	{"4.1.1.003", "Trade Discounts", "(-) Discounts granted"},
	{"4.2.1.001", "Technical Service Income", "Revenue from technical services"},
	{"4.2.1.002", "Rental Income", "Revenue from leased property"},
	{"4.3.1.001", "Foreign Exchange Gains", "Gains from currency movements"},
	{"4.3.1.002", "Interest Income", "Interest earned"},
	{"5.1.1.001", "Cost of Goods Sold", "Direct cost of merchandise sold"},
	{"5.1.1.002", "Cost of Services", "Direct cost of services rendered"},
	{"5.1.1.003", "Purchase Returns", "(-) Returned purchases"},
	{"5.2.1.001", "Salaries and Wages (Selling)", "Sales staff compensation"},
	{"5.2.1.002", "Sales Commissions", "Commissions on sales"},
	{"5.2.1.003", "Advertising", "Promotion and publicity"},
	{"5.2.1.004", "Freight and Transport", "Outbound logistics costs"},
	{"5.2.2.001", "Salaries and Wages (Administration)", "Administrative staff compensation"},
	{"5.2.2.002", "Utilities", "Water, power and telephone"},
	{"5.2.2.003", "Rent Expense", "Office and plant leases"},
	{"5.2.2.004", "Insurance Expense", "Insurance premiums"},
	{"5.2.2.005", "Depreciation Expense", "Depreciation charged to administration"},
	{"5.2.2.006", "Amortization Expense", "Amortization charged to administration"},
	{"5.3.1.001", "Interest Expense", "Cost of borrowed funds"},
	{"5.3.1.002", "Foreign Exchange Losses", "Losses from currency movements"},
	{"5.3.1.003", "Sundry Non-Operating Expenses", "Miscellaneous expenses"},
	{"6.1.1.001", "Goods on Consignment", "Third-party goods held"},
	{"6.1.1.002", "Leased Assets Received", "Assets held under lease"},
	{"6.2.1.001", "Guarantees Granted", "Obligations under issued guarantees"},
}
