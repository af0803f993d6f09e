package opds

const libraryFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <id>library-1</id>
  <title>Manga</title>
  <link rel="self" type="application/atom+xml;profile=opds-catalog;kind=navigation" href="/api/opds/key/libraries/1"/>
  <entry>
    <id>101</id>
    <title>Blue Period</title>
    <link rel="http://opds-spec.org/image" type="image/png" href="/api/image/series-cover?seriesId=101"/>
    <link rel="http://opds-spec.org/image/thumbnail" type="image/png" href="/api/image/series-cover?seriesId=101&amp;thumb=1"/>
    <link rel="subsection" type="application/atom+xml;profile=opds-catalog;kind=navigation" href="/api/opds/key/series/101"/>
  </entry>
  <entry>
    <id>102</id>
    <title>No Cover Here</title>
    <link rel="subsection" type="application/atom+xml;profile=opds-catalog;kind=navigation" href="/api/opds/key/series/102"/>
  </entry>
  <entry>
    <id>103</id>
    <title>  Dungeon Meshi  </title>
    <link rel="http://opds-spec.org/image/thumbnail" type="image/jpeg" href="/api/image/series-cover?seriesId=103"/>
  </entry>
</feed>`

const seriesFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <id>series-101</id>
  <title>Blue Period</title>
  <entry>
    <id>5001</id>
    <title>Chapter 1</title>
    <link rel="subsection" type="application/atom+xml;profile=opds-catalog;kind=navigation" href="/api/opds/key/series/101/volume/12/chapter/5001"/>
    <link rel="http://opds-spec.org/image/thumbnail" type="image/jpeg" href="/api/image/chapter-cover?chapterId=5001"/>
  </entry>
  <entry>
    <id>5002</id>
    <title>Chapter 2</title>
    <link type="application/atom+xml;profile=opds-catalog;kind=navigation" href="/api/opds/key/series/101/volume/13/chapter/5002"/>
  </entry>
  <entry>
    <id>5003</id>
    <title>Loose Chapter</title>
  </entry>
</feed>`

const emptyFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <id>series-999</id>
  <title>Empty</title>
</feed>`

const chapterFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:pse="http://vaemendis.net/opds-pse/ns">
  <id>chapter-5001</id>
  <title>Chapter 1</title>
  <entry>
    <id>5001</id>
    <title>Chapter 1</title>
    <link rel="alternate" type="application/atom+xml;type=entry;profile=opds-catalog" href="/api/opds/key/series/101/volume/12/chapter/5001"/>
    <link rel="http://vaemendis.net/opds-pse/stream" type="image/jpeg" href="/stream/{pageNumber}" pse:count="24"/>
  </entry>
</feed>`

// Kavita serializes the PSE namespace under a generated prefix.
const chapterFeedP5 = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <id>chapter-5002</id>
  <title>Chapter 2</title>
  <entry>
    <id>5002</id>
    <title>Chapter 2</title>
    <link rel="http://opds-spec.org/acquisition/open-access" type="application/zip" href="/api/opds/key/series/101/volume/13/chapter/5002/download/ch2.cbz"/>
    <link xmlns:p5="http://vaemendis.net/opds-pse/ns" rel="http://vaemendis.net/opds-pse/stream" type="image/jpeg" href="/api/opds/key/image?libraryId=1&amp;seriesId=101&amp;volumeId=13&amp;chapterId=5002&amp;pageNumber={pageNumber}" p5:count="18" p5:lastRead="6"/>
  </entry>
</feed>`

const chapterFeedNoStream = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <id>chapter-5001</id>
  <title>Chapter 1</title>
  <entry>
    <id>5001</id>
    <title>Chapter 1</title>
    <link rel="alternate" type="application/atom+xml" href="/api/opds/key/series/101/volume/12/chapter/5001"/>
  </entry>
</feed>`

const rssPayload = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Not Atom</title><item><title>x</title></item></channel></rss>`
