package ledger

import "context"

// MockAdapter is a test double for Adapter. Function fields must be set
// before the corresponding method is called.
type MockAdapter struct {
	UtxosByOutRefFn     func(ctx context.Context, refs []OutRef) ([]UTxO, error)
	UtxoByUnitFn        func(ctx context.Context, unit string) (UTxO, error)
	UtxosAtFn           func(ctx context.Context, address Address) ([]UTxO, error)
	WalletAddressFn     func(ctx context.Context) (Address, error)
	SignMessageFn       func(ctx context.Context, address Address, payload string) (string, string, error)
	SignAndSubmitFn     func(ctx context.Context, draft Draft) (string, error)
	AwaitConfirmationFn func(ctx context.Context, txHash string) (bool, error)
}

func (m *MockAdapter) UtxosByOutRef(ctx context.Context, refs []OutRef) ([]UTxO, error) {
	return m.UtxosByOutRefFn(ctx, refs)
}
func (m *MockAdapter) UtxoByUnit(ctx context.Context, unit string) (UTxO, error) {
	return m.UtxoByUnitFn(ctx, unit)
}
func (m *MockAdapter) UtxosAt(ctx context.Context, address Address) ([]UTxO, error) {
	return m.UtxosAtFn(ctx, address)
}
func (m *MockAdapter) WalletAddress(ctx context.Context) (Address, error) {
	return m.WalletAddressFn(ctx)
}
func (m *MockAdapter) SignMessage(ctx context.Context, address Address, payload string) (string, string, error) {
	return m.SignMessageFn(ctx, address, payload)
}
func (m *MockAdapter) SignAndSubmit(ctx context.Context, draft Draft) (string, error) {
	return m.SignAndSubmitFn(ctx, draft)
}
func (m *MockAdapter) AwaitConfirmation(ctx context.Context, txHash string) (bool, error) {
	return m.AwaitConfirmationFn(ctx, txHash)
}
