// Package solana реализует мониторинг dev-кошелька: периодический
// опрос RPC-ноды на предмет входящих переводов и их фиксацию в tax_log.
// Мониторинг только наблюдает — игровые пулы он не трогает.
package solana

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/apple-shot/internal/common"
)

const lamportsPerSOL = 1_000_000_000

// TaxStore — запись и агрегация зафиксированных переводов.
type TaxStore interface {
	RecordTax(ctx context.Context, signature string, amount float64) error
	SumTaxes(ctx context.Context) (float64, error)
}

// Monitor опрашивает Solana RPC и пишет входящие переводы в tax_log.
// Без адреса кошелька в конфигурации монитор выключен.
type Monitor struct {
	client *rpc.Client
	store  TaxStore
	wallet solana.PublicKey

	mu       sync.Mutex
	lastSig  solana.Signature
	synced   bool
	enabled  bool
	endpoint string
}

// NewMonitor создаёт монитор кошелька. Пустой walletAddr — монитор
// выключен, Poll превращается в no-op.
func NewMonitor(walletAddr, rpcEndpoint string, store TaxStore) (*Monitor, error) {
	m := &Monitor{store: store, endpoint: rpcEndpoint}
	if walletAddr == "" {
		return m, nil
	}

	wallet, err := solana.PublicKeyFromBase58(walletAddr)
	if err != nil {
		return nil, fmt.Errorf("некорректный адрес кошелька: %w", err)
	}

	m.wallet = wallet
	m.client = rpc.New(rpcEndpoint)
	m.enabled = true
	return m, nil
}

// Enabled сообщает, включён ли мониторинг.
func (m *Monitor) Enabled() bool {
	return m.enabled
}

// Poll выполняет один цикл опроса: берёт подписи новее последней
// обработанной и фиксирует положительные изменения баланса кошелька.
// Первый вызов только синхронизирует курсор — исторические переводы
// не пересчитываем.
func (m *Monitor) Poll(ctx context.Context) error {
	if !m.enabled {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	limit := 20
	opts := &rpc.GetSignaturesForAddressOpts{Limit: &limit}
	if m.synced && !m.lastSig.IsZero() {
		opts.Until = m.lastSig
	}

	sigs, err := m.client.GetSignaturesForAddressWithOpts(ctx, m.wallet, opts)
	if err != nil {
		return fmt.Errorf("ошибка получения подписей: %w", err)
	}
	if len(sigs) > 0 {
		m.lastSig = sigs[0].Signature
	}
	if !m.synced {
		// Первый проход: запомнили курсор, историю не трогаем
		m.synced = true
		return nil
	}

	// Подписи приходят новые первыми — обрабатываем в хронологическом порядке
	for i := len(sigs) - 1; i >= 0; i-- {
		if sigs[i].Err != nil {
			continue
		}
		if err := m.processTransaction(ctx, sigs[i].Signature); err != nil {
			log.WithError(err).WithField("signature", sigs[i].Signature.String()).
				Warn("Не удалось обработать транзакцию")
		}
	}
	return nil
}

// processTransaction читает транзакцию и фиксирует входящий перевод,
// если баланс кошелька вырос.
func (m *Monitor) processTransaction(ctx context.Context, sig solana.Signature) error {
	maxVersion := uint64(0)
	tx, err := m.client.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return fmt.Errorf("ошибка чтения транзакции: %w", err)
	}
	if tx == nil || tx.Meta == nil || len(tx.Meta.PreBalances) == 0 || len(tx.Meta.PostBalances) == 0 {
		return nil
	}

	// Кошелёк — плательщик комиссии или первый аккаунт транзакции
	change := (float64(tx.Meta.PostBalances[0]) - float64(tx.Meta.PreBalances[0])) / lamportsPerSOL
	if change <= 0 {
		return nil
	}

	if err := m.store.RecordTax(ctx, sig.String(), change); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"signature": sig.String(),
		"amount":    common.FormatSOL(change),
	}).Info("Зафиксирован входящий перевод")
	return nil
}

// Status возвращает состояние монитора для GET /api/solana-status.
func (m *Monitor) Status(ctx context.Context) (map[string]interface{}, error) {
	status := map[string]interface{}{
		"enabled": m.enabled,
	}
	if !m.enabled {
		return status, nil
	}

	total, err := m.store.SumTaxes(ctx)
	if err != nil {
		return nil, err
	}

	status["wallet"] = m.wallet.String()
	status["rpcEndpoint"] = m.endpoint
	status["totalReceived"] = common.Round2(total)
	return status, nil
}
