package web

// Single-page dashboard: price chart, wallet stats, feed of trades and
// advisory commentary.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>BitFlow</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
  <style>
    :root {
      --bg:#09090b;
      --panel:#18181b;
      --border:#27272a;
      --ink:#f4f4f5;
      --ink-soft:#a1a1aa;
      --accent:#f59e0b;
      --green:#34d399;
      --red:#fb7185;
    }
    * { box-sizing:border-box; }
    body {
      margin:0;
      min-height:100vh;
      padding:2rem;
      background:var(--bg);
      color:var(--ink);
      font-family:'Space Mono','JetBrains Mono',monospace;
    }
    #app {
      width:min(1200px,96vw);
      margin:0 auto;
      display:grid;
      grid-template-columns:1fr 340px;
      gap:1.5rem;
    }
    .panel {
      background:var(--panel);
      border:1px solid var(--border);
      border-radius:12px;
      padding:1.25rem;
    }
    h1 { font-size:1.2rem; margin:0 0 .25rem; color:var(--accent); }
    h2 { font-size:.8rem; margin:0 0 .75rem; color:var(--ink-soft); text-transform:uppercase; letter-spacing:.1em; }
    .price { font-size:2rem; color:var(--accent); }
    .stat { display:flex; justify-content:space-between; font-size:.85rem; margin:.35rem 0; }
    .stat span:first-child { color:var(--ink-soft); }
    #sentiment { font-size:.85rem; line-height:1.5; color:var(--ink); }
    #prediction { font-size:.8rem; color:var(--ink-soft); font-style:italic; margin-top:.5rem; }
    ul { list-style:none; margin:0; padding:0; max-height:260px; overflow-y:auto; }
    li { font-size:.75rem; padding:.4rem 0; border-bottom:1px solid var(--border); }
    .buy { color:var(--green); }
    .sell { color:var(--red); }
    .full { grid-column:1 / -1; }
  </style>
</head>
<body>
  <div id="app">
    <div class="panel full">
      <h1>BitFlow</h1>
      <div class="price" id="price">--</div>
    </div>
    <div class="panel">
      <h2>Price</h2>
      <canvas id="chart" height="220"></canvas>
    </div>
    <div class="panel">
      <h2>Wallet</h2>
      <div class="stat"><span>USD</span><span id="usd">--</span></div>
      <div class="stat"><span>BTC</span><span id="btc">--</span></div>
      <div class="stat"><span>Equity</span><span id="equity">--</span></div>
      <h2 style="margin-top:1rem">AI Market Sentiment</h2>
      <div id="sentiment">Analyzing market trends...</div>
      <div id="prediction"></div>
    </div>
    <div class="panel">
      <h2>Trades</h2>
      <ul id="trades"></ul>
    </div>
    <div class="panel">
      <h2>Advisory Feed</h2>
      <ul id="advisories"></ul>
    </div>
  </div>
  <script>
    const chart = new Chart(document.getElementById('chart'), {
      type: 'line',
      data: { labels: [], datasets: [{ data: [], borderColor: '#f59e0b', pointRadius: 0, tension: 0.3 }] },
      options: { plugins: { legend: { display: false } }, scales: { x: { display: false } } }
    });

    async function refresh() {
      const overview = await fetch('/overview').then(r => r.json());
      document.getElementById('price').textContent = '$' + overview.price;
      document.getElementById('usd').textContent = '$' + overview.usd_balance;
      document.getElementById('btc').textContent = overview.btc_balance;
      document.getElementById('equity').textContent = '$' + overview.equity;
      document.getElementById('sentiment').textContent = overview.sentiment;
      if (overview.prediction) {
        document.getElementById('prediction').textContent =
          '6-month target $' + overview.prediction.target_price + ': "' + overview.prediction.reasoning + '"';
      }

      const history = await fetch('/history').then(r => r.json());
      chart.data.labels = history.map(p => p.ts);
      chart.data.datasets[0].data = history.map(p => parseFloat(p.price));
      chart.update('none');
    }
    refresh();
    setInterval(refresh, 3000);

    function prepend(listId, text, cls) {
      const li = document.createElement('li');
      li.textContent = text;
      if (cls) li.className = cls;
      const list = document.getElementById(listId);
      list.insertBefore(li, list.firstChild);
      while (list.children.length > 50) list.removeChild(list.lastChild);
    }

    const trades = new EventSource('/trades/stream');
    trades.addEventListener('trade', e => {
      const tx = JSON.parse(e.data);
      const kind = tx.kind === 0 ? 'BUY' : 'SELL';
      prepend('trades', kind + ' $' + tx.amount_usd + ' @ $' + tx.price_at_time, kind.toLowerCase());
    });

    const advisories = new EventSource('/advisory/stream');
    advisories.addEventListener('advisory', e => {
      const ev = JSON.parse(e.data);
      prepend('advisories', '[' + ev.kind + '] ' + ev.text);
    });
  </script>
</body>
</html>
`
