// registers.go - Default bus address map for the latency harness

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

/*
registers.go - Master Address Map

This file is the single reference for the default memory map built by
DefaultHarnessConfig. Any window can be moved or resized from the command
line or by a caller building its own HarnessConfig; the validation rules in
harness_config.go apply either way.

MEMORY MAP OVERVIEW
===================

Address Range             Size    Target        Contents   Latency
---------------------------------------------------------------------------
0x00000000-0x00007FFF     32KB    imem          image      IMEM_LATENCY
0x80000000-0x80001FFF     8KB     dmem          zero       DMEM_LATENCY
0xF0000000-0xF000003F     64B     xio           none       XIO_LATENCY
0xFF000000                word    irq_trigger   -          same cycle

TARGET DETAILS
==============

imem - instruction memory, preloaded from the boot image (-image).

dmem - data memory, zero-filled at power-on.

xio - external I/O window with no storage. Writes vanish and reads return
zero; it exists so a master can be checked against a slow peripheral.

irq_trigger - doorbell. Full-word write latches bit 3 onto the software
interrupt line and bit 11 onto the external interrupt line.
*/

package main

const (
	IMEM_BASE    = 0x00000000
	IMEM_SIZE    = 32 * 1024
	IMEM_LATENCY = 1

	DMEM_BASE    = 0x80000000
	DMEM_SIZE    = 8 * 1024
	DMEM_LATENCY = 1

	XIO_BASE    = 0xF0000000
	XIO_SIZE    = 64
	XIO_LATENCY = 3

	IRQ_TRIGGER_ADDR = 0xFF000000
)

const (
	DEFAULT_CLOCK_HZ     = 100_000_000
	DEFAULT_RESET_CYCLES = 30
	DEFAULT_WATCHDOG_SEC = 10
)
