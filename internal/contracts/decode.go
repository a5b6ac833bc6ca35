package contracts

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/feral-file/ff-chain-sync/internal/domain"
)

// Args holds the decoded arguments of an event keyed by their Solidity name
type Args map[string]interface{}

// Decode unpacks a log of the given event, both its indexed topics and its data.
// Any mismatch with the ABI is reported as domain.ErrMalformedEvent.
func Decode(contract abi.ABI, eventName string, log types.Log) (Args, error) {
	event, ok := contract.Events[eventName]
	if !ok {
		return nil, fmt.Errorf("%w: event %s not in abi", domain.ErrMalformedEvent, eventName)
	}
	if len(log.Topics) == 0 || log.Topics[0] != event.ID {
		return nil, fmt.Errorf("%w: log is not a %s event", domain.ErrMalformedEvent, eventName)
	}

	inputs, err := argumentsForTopics(event.Inputs, len(log.Topics)-1)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedEvent, eventName, err)
	}

	args := make(Args)
	if err := inputs.UnpackIntoMap(args, log.Data); err != nil {
		return nil, fmt.Errorf("%w: %s data: %v", domain.ErrMalformedEvent, eventName, err)
	}

	var indexed abi.Arguments
	for _, input := range inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if err := abi.ParseTopicsIntoMap(args, indexed, log.Topics[1:]); err != nil {
		return nil, fmt.Errorf("%w: %s topics: %v", domain.ErrMalformedEvent, eventName, err)
	}

	return args, nil
}

// argumentsForTopics returns the event inputs with indexed flags matching the log.
// Deployments of the same contract differ in which arguments are indexed, so when
// the ABI disagrees with the log the leading static arguments are treated as indexed.
func argumentsForTopics(inputs abi.Arguments, topics int) (abi.Arguments, error) {
	declared := 0
	for _, input := range inputs {
		if input.Indexed {
			declared++
		}
	}
	if declared == topics {
		return inputs, nil
	}
	if topics > len(inputs) {
		return nil, fmt.Errorf("%d topics for %d arguments", topics, len(inputs))
	}

	flagged := make(abi.Arguments, len(inputs))
	for i, input := range inputs {
		input.Indexed = i < topics
		if input.Indexed && isDynamic(input.Type) {
			return nil, fmt.Errorf("argument %s cannot be indexed", input.Name)
		}
		flagged[i] = input
	}
	return flagged, nil
}

func isDynamic(t abi.Type) bool {
	switch t.T {
	case abi.StringTy, abi.BytesTy, abi.SliceTy, abi.TupleTy:
		return true
	default:
		return false
	}
}

func missing(name string) error {
	return fmt.Errorf("%w: argument %s missing", domain.ErrMalformedEvent, name)
}

func wrongType(name string, v interface{}) error {
	return fmt.Errorf("%w: argument %s has type %T", domain.ErrMalformedEvent, name, v)
}

// Address returns an address argument
func (a Args) Address(name string) (common.Address, error) {
	v, ok := a[name]
	if !ok {
		return common.Address{}, missing(name)
	}
	addr, ok := v.(common.Address)
	if !ok {
		return common.Address{}, wrongType(name, v)
	}
	return addr, nil
}

// BigInt returns an unsigned integer argument
func (a Args) BigInt(name string) (*big.Int, error) {
	v, ok := a[name]
	if !ok {
		return nil, missing(name)
	}
	n, ok := v.(*big.Int)
	if !ok || n == nil {
		return nil, wrongType(name, v)
	}
	return n, nil
}

// String returns a string argument
func (a Args) String(name string) (string, error) {
	v, ok := a[name]
	if !ok {
		return "", missing(name)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(name, v)
	}
	return s, nil
}

// Addresses returns an address[] argument
func (a Args) Addresses(name string) ([]common.Address, error) {
	v, ok := a[name]
	if !ok {
		return nil, missing(name)
	}
	addrs, ok := v.([]common.Address)
	if !ok {
		return nil, wrongType(name, v)
	}
	return addrs, nil
}

// BigInts returns a uint256[] argument
func (a Args) BigInts(name string) ([]*big.Int, error) {
	v, ok := a[name]
	if !ok {
		return nil, missing(name)
	}
	ns, ok := v.([]*big.Int)
	if !ok {
		return nil, wrongType(name, v)
	}
	return ns, nil
}

// Fields renders the arguments as JSON friendly values for the event log.
// Leading underscores are dropped from names; integers become decimal strings
// and addresses their checksum form.
func (a Args) Fields() map[string]any {
	fields := make(map[string]any, len(a))
	for name, v := range a {
		key := strings.TrimPrefix(name, "_")
		switch val := v.(type) {
		case common.Address:
			fields[key] = val.Hex()
		case *big.Int:
			fields[key] = val.String()
		case []common.Address:
			out := make([]string, len(val))
			for i, addr := range val {
				out[i] = addr.Hex()
			}
			fields[key] = out
		case []*big.Int:
			out := make([]string, len(val))
			for i, n := range val {
				out[i] = n.String()
			}
			fields[key] = out
		case common.Hash:
			fields[key] = val.Hex()
		default:
			fields[key] = val
		}
	}
	return fields
}
