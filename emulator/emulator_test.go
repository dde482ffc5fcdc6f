package emulator

import (
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/regasm/asm"
	"github.com/ezrec/regasm/config"
	"github.com/ezrec/regasm/cpu"
)

var _ = Describe("Emulator", func() {
	var (
		emu    *Emulator
		output *bytes.Buffer
	)

	load := func(program []string, input string) {
		prog, err := Assembler(config.Config{}).Parse(strings.NewReader(strings.Join(program, "\n")))
		Expect(err).NotTo(HaveOccurred())

		emu.Program = prog
		Expect(emu.Reset()).To(Succeed())

		emu.Cpu.Console.SetInput(strings.NewReader(input))
		emu.Cpu.Console.Output = output
	}

	register := func(name string) int32 {
		idx, ok := emu.Program.RegisterIndex(name)
		Expect(ok).To(BeTrue(), name)
		return emu.Cpu.Register[idx]
	}

	BeforeEach(func() {
		emu = NewEmulator()
		output = &bytes.Buffer{}
	})

	It("should start empty", func() {
		Expect(emu.Verbose).To(BeFalse())
		Expect(emu.Program.Len()).To(Equal(0))
		Expect(emu.Reset()).To(Succeed())

		done, err := emu.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(done).To(BeTrue())
		Expect(emu.LineNo()).To(Equal(0))
	})

	It("should count a loop down", func() {
		load([]string{
			"mov a, 3",
			"top:",
			"add b, 1",
			"loop a, top",
			"println b",
		}, "")

		Expect(emu.Run()).To(Succeed())
		Expect(output.String()).To(Equal("3\n"))
		Expect(register("a")).To(Equal(int32(0)))
		Expect(emu.Ticks()).To(Equal(8))
	})

	It("should pop in reverse push order", func() {
		load([]string{
			"push 10",
			"push 20",
			"pop x",
			"pop y",
			"println x",
			"println y",
		}, "")

		Expect(emu.Run()).To(Succeed())
		Expect(output.String()).To(Equal("20\n10\n"))
	})

	It("should report the source line of a fault", func() {
		load([]string{
			"mov a, 10",
			"mov b, 0",
			"div a, b",
			"println a",
		}, "")

		err := emu.Run()
		Expect(err).To(MatchError(cpu.ErrDivideByZero))

		var runtime *ErrRuntime
		Expect(errors.As(err, &runtime)).To(BeTrue())
		Expect(runtime.LineNo).To(Equal(3))

		var fault *cpu.ErrFault
		Expect(errors.As(err, &fault)).To(BeTrue())
		Expect(fault.Ip).To(Equal(2))
		Expect(fault.Instruction).To(Equal(asm.NewRegReg(asm.VERB_DIV, 0, 1)))

		Expect(output.String()).To(BeEmpty())
	})

	It("should track line numbers while stepping", func() {
		load([]string{
			"; header",
			"mov a, 1",
			"",
			"jmp skip",
			"println \"skipped\"",
			"skip: println a",
		}, "")

		lines := []int{}
		for {
			lines = append(lines, emu.LineNo())
			done, err := emu.Tick()
			Expect(err).NotTo(HaveOccurred())
			if done {
				break
			}
		}

		Expect(lines).To(Equal([]int{2, 4, 6, 0}))
		Expect(output.String()).To(Equal("1\n"))
		Expect(emu.Ip()).To(Equal(emu.Program.Len()))
	})

	It("should read its input", func() {
		load([]string{
			"read n",
			"mov sum, 0",
			"next:",
			"read v",
			"add sum, v",
			"loop n, next",
			"print \"sum \"",
			"println sum",
		}, "4 1 2 3 4\n")

		Expect(emu.Run()).To(Succeed())
		Expect(output.String()).To(Equal("sum 10\n"))
		Expect(register("sum")).To(Equal(int32(10)))
	})

	It("should run subroutines", func() {
		load([]string{
			"mov n, 5",
			"mov acc, 1",
			"call fact",
			"println acc",
			"jmp end",
			"fact:",
			"cmp n, 1",
			"jle fact_done",
			"mul acc, n",
			"dec n",
			"call fact",
			"fact_done:",
			"ret",
			"end:",
		}, "")

		Expect(emu.Run()).To(Succeed())
		Expect(output.String()).To(Equal("120\n"))
		Expect(emu.Cpu.Stack.Empty()).To(BeTrue())
	})

	Context("when configured", func() {
		It("should stop at the step limit", func() {
			emu.Configure(config.Config{StepLimit: 100})
			load([]string{"spin: jmp spin"}, "")

			err := emu.Run()
			Expect(err).To(MatchError(ErrStepLimit))
			Expect(emu.Ticks()).To(Equal(100))
		})

		It("should bound the stack", func() {
			emu.Configure(config.Config{StackLimit: 3})
			load([]string{
				"push 1",
				"push 2",
				"push 3",
				"push 4",
			}, "")

			err := emu.Run()
			Expect(err).To(MatchError(cpu.ErrStackFull))

			var runtime *ErrRuntime
			Expect(errors.As(err, &runtime)).To(BeTrue())
			Expect(runtime.LineNo).To(Equal(4))
		})

		It("should seed equates from defines", func() {
			cfg := config.Config{Defines: map[string]string{"COUNT": "4"}}
			prog, err := Assembler(cfg).Parse(strings.NewReader("mov a, $(COUNT * 2)\nprintln a\n"))
			Expect(err).NotTo(HaveOccurred())

			emu.Configure(cfg)
			emu.Program = prog
			Expect(emu.Reset()).To(Succeed())
			emu.Cpu.Console.Output = output

			Expect(emu.Run()).To(Succeed())
			Expect(output.String()).To(Equal("8\n"))
		})
	})

	It("should predefine the integer limits", func() {
		load([]string{
			"mov a, INT_MAX",
			"add a, 1",
			"cmp a, INT_MIN",
			"je wrapped",
			"println \"no\"",
			"wrapped: println a",
		}, "")

		Expect(emu.Run()).To(Succeed())
		Expect(output.String()).To(Equal("-2147483648\n"))
	})

	It("should let defines override the standard equates", func() {
		cfg := config.Config{Defines: map[string]string{"INT_MAX": "7"}}
		prog, err := Assembler(cfg).Parse(strings.NewReader("push INT_MAX\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Opcodes[0].Instruction).To(Equal(asm.NewNum(asm.VERB_PUSH, 7)))
	})

	It("should run again after a reset", func() {
		load([]string{"inc a", "println a"}, "")

		Expect(emu.Run()).To(Succeed())
		Expect(emu.Reset()).To(Succeed())
		Expect(emu.Run()).To(Succeed())
		Expect(output.String()).To(Equal("1\n1\n"))
	})
})
