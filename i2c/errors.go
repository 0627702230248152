package i2c

import "errors"

// ErrNACK signals that the device left the data line high in an acknowledge
// slot after a data byte; the transaction was aborted.
var ErrNACK = errors.New("i2c: NACK received")

// ErrNoDevice signals that no device acknowledged the address byte.
var ErrNoDevice = errors.New("i2c: no such device")
