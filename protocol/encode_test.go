package protocol_test

import (
	"encoding/hex"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/rcon/protocol"
)

var _ = Describe("Encode", func() {
	It("produces the exact wire layout", func() {
		// A command frame for "info" with request id 42, as captured from a
		// real exchange.
		b, err := protocol.Encode(42, protocol.TypeCommand, "info")
		Expect(err).To(Succeed())
		Expect(hex.EncodeToString(b)).To(Equal("0e0000002a00000002000000696e666f0000"))
	})

	It("declares a size of 10 for an empty payload", func() {
		b, err := protocol.Encode(1, protocol.TypeAuth, "")
		Expect(err).To(Succeed())
		Expect(b).To(HaveLen(14))
		Expect(b[0:4]).To(Equal([]byte{10, 0, 0, 0}))
	})

	It("terminates every frame with two NUL bytes", func() {
		b, err := protocol.Encode(7, protocol.TypeCommand, "say hi")
		Expect(err).To(Succeed())
		Expect(b[len(b)-2:]).To(Equal([]byte{0, 0}))
	})

	It("writes integers little-endian", func() {
		b, err := protocol.Encode(258, protocol.TypeAuth, "")
		Expect(err).To(Succeed())
		Expect(b[4:8]).To(Equal([]byte{2, 1, 0, 0}))
		Expect(b[8:12]).To(Equal([]byte{3, 0, 0, 0}))
	})

	It("refuses payloads outside US-ASCII", func() {
		_, err := protocol.Encode(1, protocol.TypeCommand, "say héllo")
		Expect(err).To(MatchError(protocol.ErrPayloadEncoding))
	})

	It("does not bound the payload length", func() {
		long := make([]byte, 16*1024)
		for i := range long {
			long[i] = 'a'
		}

		b, err := protocol.Encode(1, protocol.TypeCommand, string(long))
		Expect(err).To(Succeed())
		Expect(b).To(HaveLen(protocol.HeaderSize + protocol.OverheadSize + len(long)))
	})
})
