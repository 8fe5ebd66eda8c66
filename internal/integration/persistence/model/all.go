package model

// All returns every model managed by auto-migration, parents before children.
func All() []any {
	return []any{
		&UserModel{},
		&RefreshTokenModel{},
		&InvestmentPlanModel{},
		&InvestmentModel{},
		&LedgerEntryModel{},
		&DepositModel{},
		&PayoutRunModel{},
		&EmailQueueModel{},
	}
}
