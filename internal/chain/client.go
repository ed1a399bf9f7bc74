// Package chain 負責將資料寫入以太坊。
//
// Client 以設定中的私鑰簽署交易，提供三種操作：把檔案內容放入交易 data、
// 呼叫登記合約的 storeRecord，以及部署登記合約。
package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"kai_shield/pkg/config"
)

// ErrNotConfigured 表示缺少執行該操作所需的設定
var ErrNotConfigured = errors.New("chain: not configured")

// DefaultRegistryABI 是登記合約的最小 ABI
const DefaultRegistryABI = `[{"type":"function","name":"storeRecord","stateMutability":"nonpayable","inputs":[{"name":"fingerprint","type":"string"},{"name":"ipfsHash","type":"string"}],"outputs":[]}]`

const storeRecordMethod = "storeRecord"

// Backend 是 Client 需要的節點操作，*ethclient.Client 即滿足此介面
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

var _ Backend = (*ethclient.Client)(nil)

type Client struct {
	backend  Backend
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	signer   types.Signer
	registry *common.Address
	abi      abi.ABI
	bytecode []byte
	gasLimit uint64

	// 取得 nonce 到送出交易之間必須互斥，否則併發請求會拿到相同 nonce
	sendMu sync.Mutex
}

// Dial 連線到 cfg.RPCURL 並建立 Client
func Dial(ctx context.Context, cfg config.EthConfig) (*Client, *ethclient.Client, error) {
	ec, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed dialing eth node: %w", err)
	}
	c, err := New(ctx, ec, cfg)
	if err != nil {
		ec.Close()
		return nil, nil, err
	}
	return c, ec, nil
}

// New 以指定的 backend 建立 Client。私鑰為空時仍會回傳 Client，但所有操作都會回傳 ErrNotConfigured。
func New(ctx context.Context, backend Backend, cfg config.EthConfig) (*Client, error) {
	abiDef := cfg.RegistryABI
	if abiDef == "" {
		abiDef = DefaultRegistryABI
	}
	parsed, err := abi.JSON(strings.NewReader(abiDef))
	if err != nil {
		return nil, fmt.Errorf("invalid registry ABI: %w", err)
	}
	if _, ok := parsed.Methods[storeRecordMethod]; !ok {
		return nil, fmt.Errorf("registry ABI has no %s method", storeRecordMethod)
	}

	c := &Client{
		backend:  backend,
		abi:      parsed,
		gasLimit: cfg.GasLimit,
	}

	if cfg.RegistryAddress != "" {
		if !common.IsHexAddress(cfg.RegistryAddress) {
			return nil, fmt.Errorf("invalid registry address %q", cfg.RegistryAddress)
		}
		addr := common.HexToAddress(cfg.RegistryAddress)
		c.registry = &addr
	}

	if cfg.Bytecode != "" {
		c.bytecode = common.FromHex(cfg.Bytecode)
		if len(c.bytecode) == 0 {
			return nil, errors.New("invalid contract bytecode")
		}
	}

	if cfg.PrivateKey == "" {
		return c, nil
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	c.key = key
	c.from = crypto.PubkeyToAddress(key.PublicKey)

	if cfg.ChainID > 0 {
		c.chainID = big.NewInt(cfg.ChainID)
	} else {
		c.chainID, err = backend.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed fetching chain id: %w", err)
		}
	}
	c.signer = types.LatestSignerForChainID(c.chainID)

	return c, nil
}

// From 回傳簽署帳戶地址
func (c *Client) From() common.Address {
	return c.from
}

// Upload 將 data 放入一筆送給自己的零金額交易並回傳交易 hash
func (c *Client) Upload(ctx context.Context, data []byte) (string, error) {
	if c.key == nil {
		return "", fmt.Errorf("%w: missing private key", ErrNotConfigured)
	}
	to := c.from
	tx, _, err := c.send(ctx, &to, data)
	if err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}

// StoreRecord 呼叫登記合約的 storeRecord(fingerprint, ipfsHash)
func (c *Client) StoreRecord(ctx context.Context, fingerprint, ipfsHash string) (string, error) {
	if c.key == nil {
		return "", fmt.Errorf("%w: missing private key", ErrNotConfigured)
	}
	if c.registry == nil {
		return "", fmt.Errorf("%w: missing registry address", ErrNotConfigured)
	}

	input, err := c.abi.Pack(storeRecordMethod, fingerprint, ipfsHash)
	if err != nil {
		return "", fmt.Errorf("failed encoding %s call: %w", storeRecordMethod, err)
	}

	tx, _, err := c.send(ctx, c.registry, input)
	if err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}

// DeployContract 部署登記合約，回傳合約地址與交易 hash
func (c *Client) DeployContract(ctx context.Context) (address, txHash string, err error) {
	if c.key == nil {
		return "", "", fmt.Errorf("%w: missing private key", ErrNotConfigured)
	}
	if len(c.bytecode) == 0 {
		return "", "", fmt.Errorf("%w: missing contract bytecode", ErrNotConfigured)
	}

	tx, nonce, err := c.send(ctx, nil, c.bytecode)
	if err != nil {
		return "", "", err
	}
	return crypto.CreateAddress(c.from, nonce).Hex(), tx.Hash().Hex(), nil
}

// send 簽署並送出交易；to 為 nil 時為合約部署
func (c *Client) send(ctx context.Context, to *common.Address, data []byte) (*types.Transaction, uint64, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	nonce, err := c.backend.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, 0, fmt.Errorf("failed fetching nonce: %w", err)
	}

	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed fetching gas price: %w", err)
	}

	gas := c.gasLimit
	if gas == 0 {
		gas, err = c.backend.EstimateGas(ctx, ethereum.CallMsg{
			From:     c.from,
			To:       to,
			GasPrice: gasPrice,
			Data:     data,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("failed estimating gas: %w", err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       to,
		Value:    big.NewInt(0),
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, c.signer, c.key)
	if err != nil {
		return nil, 0, fmt.Errorf("failed signing transaction: %w", err)
	}

	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return nil, 0, fmt.Errorf("failed sending transaction: %w", err)
	}

	return signed, nonce, nil
}
