// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package ts reads and writes Qt Linguist translation source files (".ts").

A TS file groups messages by context (usually the C++ class or namespace that
owns the string). Each message carries the source text, an optional
translation and the source locations it was extracted from:

	<TS version="2.1" language="fr_FR">
	<context>
	    <name>Monero::AddressBookImpl</name>
	    <message>
	        <location filename="../src/wallet/api/address_book.cpp" line="53"/>
	        <source>Invalid destination address</source>
	        <translation>Adresse de destination invalide</translation>
	    </message>
	</context>
	</TS>

Decoding resolves entity escapes, <byte value="..."/> control characters and
relative locations. Encoding writes the layout and escaping used by lupdate,
so files written by [Encode] diff cleanly against files written by Qt tools.
Relative locations are always written back as absolute ones.
*/
package ts
