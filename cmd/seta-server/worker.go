package main

import (
	"fmt"
	"math/big"
	"time"

	"github.com/JumpPrivacy/seta/accumulator"
	"github.com/JumpPrivacy/seta/db"
)

type AddRequest struct {
	Value []byte
	Resp  chan<- AddResponse
}

type AddResponse struct {
	State *big.Int
	Err   error
}

type WitnessRequest struct {
	Value []byte
	Resp  chan<- WitnessResponse
}

type WitnessResponse struct {
	Witness *accumulator.Witness
	State   *big.Int
	Err     error
}

// worker is the goroutine that owns the accumulator. Every add and witness
// request funnels through it, which gives the engine the exclusive sequential
// store access it assumes.
func worker(acc *accumulator.Accumulator, store db.Store, adds <-chan AddRequest, witnesses <-chan WitnessRequest) {
	for {
		select {
		case req := <-adds:
			start := time.Now()
			err := acc.Add(req.Value)
			addOps.WithLabelValues(fmt.Sprint(err == nil)).Inc()
			addDur.Observe(float64(time.Since(start).Microseconds()))

			var state *big.Int
			if err == nil {
				state, err = store.State()
			}
			select {
			case req.Resp <- AddResponse{state, err}:
			default:
			}

		case req := <-witnesses:
			witness, err := acc.Witness(req.Value)
			var state *big.Int
			if err == nil {
				state, err = store.State()
			}
			select {
			case req.Resp <- WitnessResponse{witness, state, err}:
			default:
			}
		}
	}
	// TODO: Restart thread in case of panic.
}
